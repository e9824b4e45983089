package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"employee-feedback/src/models"
)

const (
	RecentDays  = 7
	AverageDays = 30

	dayLayout = "2006-01-02"
)

// Reader is the aggregation capability of the feedback store.
type Reader interface {
	AggregateStats(ctx context.Context, window models.StatsWindow) (models.StatsAggregate, error)
}

// Service computes the dashboard statistics fresh on every call.
type Service struct {
	reader Reader
	now    func() time.Time
}

// NewService creates a Service. A nil clock defaults to time.Now.
func NewService(reader Reader, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{reader: reader, now: now}
}

// Compute reads the whole record set once and returns the summary. Store
// failures are returned as-is and no partial summary is produced.
func (s *Service) Compute(ctx context.Context) (*models.StatsSummary, error) {
	window := NewWindow(s.now())
	agg, err := s.reader.AggregateStats(ctx, window)
	if err != nil {
		return nil, err
	}
	summary := Summarize(agg, window)
	return &summary, nil
}

// NewWindow derives the recent and average windows from one clock reading.
func NewWindow(now time.Time) models.StatsWindow {
	now = now.UTC()
	return models.StatsWindow{
		Now:          now,
		RecentSince:  now.AddDate(0, 0, -RecentDays),
		AverageSince: now.AddDate(0, 0, -AverageDays),
	}
}

// Summarize shapes a raw aggregate into the summary returned to clients.
//
// byDepartment is ordered by count descending with ties broken by department
// name ascending. recentActivity only keeps UTC days inside the window.
func Summarize(agg models.StatsAggregate, window models.StatsWindow) models.StatsSummary {
	byDepartment := append([]models.GroupCount{}, agg.ByDepartment...)
	sort.SliceStable(byDepartment, func(i, j int) bool {
		if byDepartment[i].Count != byDepartment[j].Count {
			return byDepartment[i].Count > byDepartment[j].Count
		}
		return byDepartment[i].Value < byDepartment[j].Value
	})

	byStatus := append([]models.GroupCount{}, agg.ByStatus...)
	sort.SliceStable(byStatus, func(i, j int) bool {
		return byStatus[i].Value < byStatus[j].Value
	})

	first := window.RecentSince.UTC().Format(dayLayout)
	last := window.Now.UTC().Format(dayLayout)
	recent := make([]models.GroupCount, 0, len(agg.RecentActivity))
	for _, bucket := range agg.RecentActivity {
		if bucket.Value < first || bucket.Value > last {
			continue
		}
		recent = append(recent, bucket)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Value < recent[j].Value
	})

	return models.StatsSummary{
		TotalCount:     agg.TotalCount(),
		ByDepartment:   byDepartment,
		ByStatus:       byStatus,
		RecentActivity: recent,
		AvgPerDay:      AveragePerDay(agg.AverageWindowCount(), AverageDays),
	}
}

// AveragePerDay returns count/days rounded half-up to two decimals, formatted
// with exactly two decimals. Integer arithmetic keeps x.xx5 exact.
func AveragePerDay(count int64, days int) string {
	if days <= 0 || count <= 0 {
		return "0.00"
	}
	d := int64(days)
	hundredths := (count*200 + d) / (2 * d)
	return fmt.Sprintf("%d.%02d", hundredths/100, hundredths%100)
}
