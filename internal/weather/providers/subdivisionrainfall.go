package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const subdivisionRainfallBaseURL = "https://mausam.imd.gov.in/api/subdivisionwise_rainfall_api.php"

// SubdivisionRainfall fetches coarse subdivision-level rainfall totals, a
// low-priority backstop behind the district figures.
type SubdivisionRainfall struct {
	cfg     clientConfig
	baseURL string
}

func NewSubdivisionRainfall(client *http.Client, baseURL string) *SubdivisionRainfall {
	if baseURL == "" {
		baseURL = subdivisionRainfallBaseURL
	}
	return &SubdivisionRainfall{cfg: newClientConfig("subdivision_rainfall", client), baseURL: baseURL}
}

func (p *SubdivisionRainfall) Name() string                  { return p.cfg.name }
func (p *SubdivisionRainfall) Priority() weather.Priority    { return weather.PrioritySubdivisionRainfall }
func (p *SubdivisionRainfall) Supports(q weather.Query) bool { return true }

type subdivisionRainfallItem struct {
	Subdivision string `json:"subdivision"`
	ActualRF    string `json:"actual_rf"`
	NormalRF    string `json:"normal_rf"`
}

func (p *SubdivisionRainfall) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	var payload []subdivisionRainfallItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return weather.Report{}, err
	}

	var sum float64
	n := 0
	for _, item := range payload {
		if v := optionalFloatField(item.ActualRF); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("no subdivisions with usable rainfall"))
	}

	annual := sum / float64(n)
	return weather.Report{
		Provider:         p.cfg.name,
		Priority:         p.Priority(),
		FetchedAt:        time.Now().UTC(),
		AnnualRainfallMM: &annual,
	}, nil
}
