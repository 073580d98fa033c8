package pages

import (
	"context"
	"log"

	"github.com/dustin/go-humanize"

	"proformaweb/backend"
	"proformaweb/services"
)

// StatsBackend is the part of the backend the dashboard talks to.
type StatsBackend interface {
	DashboardStats(ctx context.Context) (backend.Stats, error)
}

// DashboardView is what the dashboard renders. Chart is nil when the stats
// could not be loaded.
type DashboardView struct {
	Chart *services.ChartConfig
	Total string
}

// LoadDashboard fetches the monthly counts once. Failures are logged and the
// page renders without a chart.
func LoadDashboard(ctx context.Context, b StatsBackend) DashboardView {
	stats, err := b.DashboardStats(ctx)
	if err != nil {
		log.Printf("dashboard: LoadDashboard: %v", err)
		return DashboardView{}
	}
	chart := services.BuildProformasChart(stats.Labels, stats.Data)
	return DashboardView{
		Chart: &chart,
		Total: humanize.Comma(int64(services.SumCounts(stats.Data))),
	}
}
