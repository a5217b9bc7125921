package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const basinQPFBaseURL = "https://mausam.imd.gov.in/api/basin_qpf_api.php"

// BasinQPF fetches the quantitative precipitation forecast per river basin.
// The peak forecast value stands in for the maximum daily rainfall when no
// finer-grained source supplies one.
type BasinQPF struct {
	cfg     clientConfig
	baseURL string
}

func NewBasinQPF(client *http.Client, baseURL string) *BasinQPF {
	if baseURL == "" {
		baseURL = basinQPFBaseURL
	}
	return &BasinQPF{cfg: newClientConfig("basin_qpf", client), baseURL: baseURL}
}

func (p *BasinQPF) Name() string                  { return p.cfg.name }
func (p *BasinQPF) Priority() weather.Priority    { return weather.PriorityBasinQPF }
func (p *BasinQPF) Supports(q weather.Query) bool { return true }

type basinQPFItem struct {
	Basin   string `json:"basin"`
	QPFDay1 string `json:"qpf_day1"`
	QPFDay2 string `json:"qpf_day2"`
	QPFDay3 string `json:"qpf_day3"`
}

func (p *BasinQPF) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	var payload []basinQPFItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return weather.Report{}, err
	}

	var peak *float64
	for _, item := range payload {
		for _, s := range []string{item.QPFDay1, item.QPFDay2, item.QPFDay3} {
			if v := optionalFloatField(s); v != nil && (peak == nil || *v > *peak) {
				peak = v
			}
		}
	}
	if peak == nil {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("no basins with usable QPF"))
	}

	return weather.Report{
		Provider:           p.cfg.name,
		Priority:           p.Priority(),
		FetchedAt:          time.Now().UTC(),
		MaxDailyRainfallMM: peak,
	}, nil
}
