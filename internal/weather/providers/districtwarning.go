package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const districtWarningBaseURL = "https://mausam.imd.gov.in/api/warnings_district_api.php"

// DistrictWarning fetches district weather warnings. It participates in the
// merge at the lowest priority (its only canonical contribution is the
// condition implied by an active warning) and is the alert source for
// GetAlerts.
type DistrictWarning struct {
	cfg     clientConfig
	baseURL string
}

func NewDistrictWarning(client *http.Client, baseURL string) *DistrictWarning {
	if baseURL == "" {
		baseURL = districtWarningBaseURL
	}
	return &DistrictWarning{cfg: newClientConfig("district_warning", client), baseURL: baseURL}
}

func (p *DistrictWarning) Name() string                  { return p.cfg.name }
func (p *DistrictWarning) Priority() weather.Priority    { return weather.PriorityDistrictWarning }
func (p *DistrictWarning) Supports(q weather.Query) bool { return true }

type districtWarningItem struct {
	District string `json:"district"`
	Type     string `json:"warning_type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	IssuedAt string `json:"issued_at"`
}

func (p *DistrictWarning) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	items, err := p.fetchItems(ctx)
	if err != nil {
		return weather.Report{}, err
	}

	report := weather.Report{
		Provider:  p.cfg.name,
		Priority:  p.Priority(),
		FetchedAt: time.Now().UTC(),
	}
	for _, item := range items {
		if cond := normalizeCondition(item.Type); cond != "" {
			report.Condition = cond
			break
		}
	}
	if report.Condition == "" {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("no active warnings"))
	}
	return report, nil
}

// FetchAlerts implements weather.AlertProvider.
func (p *DistrictWarning) FetchAlerts(ctx context.Context, q weather.Query) ([]weather.Alert, error) {
	items, err := p.fetchItems(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]weather.Alert, 0, len(items))
	for _, item := range items {
		if item.Type == "" && item.Message == "" {
			continue
		}
		issued := time.Time{}
		if ts, err := time.Parse(time.RFC3339, item.IssuedAt); err == nil {
			issued = ts.UTC()
		}
		alerts = append(alerts, weather.Alert{
			Type:     item.Type,
			Severity: item.Severity,
			Message:  item.Message,
			IssuedAt: issued,
		})
	}
	return alerts, nil
}

func (p *DistrictWarning) fetchItems(ctx context.Context) ([]districtWarningItem, error) {
	var payload []districtWarningItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
