package app

import "github.com/hylla/tablero/internal/domain"

// Stats summarizes record collections for dashboard cards.
type Stats struct {
	Items           int     `json:"items"`
	ActiveItems     int     `json:"activeItems"`
	Employees       int     `json:"employees"`
	ActiveEmployees int     `json:"activeEmployees"`
	Opportunities   int     `json:"opportunities"`
	OpenPipeline    float64 `json:"openPipeline"`
	WonValue        float64 `json:"wonValue"`
}

// ComputeStats derives Stats from the given collections.
func ComputeStats(items []domain.Item, employees []domain.Employee, opportunities []domain.Opportunity) Stats {
	stats := Stats{
		Items:         len(items),
		Employees:     len(employees),
		Opportunities: len(opportunities),
	}
	for _, item := range items {
		if item.Status == domain.StatusActive {
			stats.ActiveItems++
		}
	}
	for _, emp := range employees {
		if emp.Status == domain.StatusActive {
			stats.ActiveEmployees++
		}
	}
	for _, opp := range opportunities {
		switch {
		case opp.Status == domain.StageClosedWon:
			stats.WonValue += opp.Value
		case !opp.Status.Closed():
			stats.OpenPipeline += opp.Value
		}
	}
	return stats
}
