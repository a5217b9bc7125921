package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const districtNowcastBaseURL = "https://mausam.imd.gov.in/api/nowcast_district_api.php"

// DistrictNowcast fetches the short-term district outlook nearest to the
// query coordinate. It mostly contributes the current condition.
type DistrictNowcast struct {
	cfg     clientConfig
	baseURL string
}

func NewDistrictNowcast(client *http.Client, baseURL string) *DistrictNowcast {
	if baseURL == "" {
		baseURL = districtNowcastBaseURL
	}
	return &DistrictNowcast{cfg: newClientConfig("district_nowcast", client), baseURL: baseURL}
}

func (p *DistrictNowcast) Name() string                  { return p.cfg.name }
func (p *DistrictNowcast) Priority() weather.Priority    { return weather.PriorityDistrictNowcast }
func (p *DistrictNowcast) Supports(q weather.Query) bool { return true }

type districtNowcastItem struct {
	District  string `json:"district"`
	Lat       string `json:"lat"`
	Lon       string `json:"lon"`
	Outlook   string `json:"nowcast"`
	UpdatedAt string `json:"updated_at"`
}

func (p *DistrictNowcast) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	var payload []districtNowcastItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return weather.Report{}, err
	}

	best := -1
	bestDist := 0.0
	for i, item := range payload {
		lat := optionalFloatField(item.Lat)
		lon := optionalFloatField(item.Lon)
		if lat == nil || lon == nil || item.Outlook == "" {
			continue
		}
		d := haversineKM(q.Latitude, q.Longitude, *lat, *lon)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("no usable district nowcast entries"))
	}

	return weather.Report{
		Provider:  p.cfg.name,
		Priority:  p.Priority(),
		FetchedAt: time.Now().UTC(),
		Condition: normalizeCondition(payload[best].Outlook),
	}, nil
}
