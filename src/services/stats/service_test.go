package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) AggregateStats(ctx context.Context, window models.StatsWindow) (models.StatsAggregate, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(models.StatsAggregate), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC)

func TestAveragePerDay(t *testing.T) {
	cases := []struct {
		count int64
		days  int
		want  string
	}{
		{0, 30, "0.00"},
		{15, 30, "0.50"},
		{1, 30, "0.03"},
		{2, 30, "0.07"},
		{30, 30, "1.00"},
		{95, 30, "3.17"},
		{1, 200, "0.01"}, // 0.005 rounds half-up
		{3, 200, "0.02"}, // 0.015 rounds half-up
		{1, 400, "0.00"}, // 0.0025 rounds down
		{10, 0, "0.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AveragePerDay(tc.count, tc.days), "count=%d days=%d", tc.count, tc.days)
	}
}

func TestNewWindow(t *testing.T) {
	w := NewWindow(fixedNow)
	assert.Equal(t, fixedNow, w.Now)
	assert.Equal(t, time.Date(2026, 10, 8, 12, 30, 0, 0, time.UTC), w.RecentSince)
	assert.Equal(t, time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC), w.AverageSince)
}

func TestSummarize(t *testing.T) {
	window := NewWindow(fixedNow)
	agg := models.NewStatsAggregate(
		10,
		[]models.GroupCount{{Value: "Sales", Count: 3}, {Value: "HR", Count: 3}, {Value: "Engineering", Count: 4}},
		[]models.GroupCount{{Value: "resolved", Count: 2}, {Value: "pending", Count: 7}, {Value: "reviewed", Count: 1}},
		[]models.GroupCount{
			{Value: "2026-10-15", Count: 2},
			{Value: "2026-10-01", Count: 9},
			{Value: "2026-10-08", Count: 1},
			{Value: "2026-10-10", Count: 3},
		},
		15,
	)

	summary := Summarize(agg, window)

	assert.Equal(t, int64(10), summary.TotalCount)
	assert.Equal(t, []models.GroupCount{
		{Value: "Engineering", Count: 4},
		{Value: "HR", Count: 3},
		{Value: "Sales", Count: 3},
	}, summary.ByDepartment)
	assert.Equal(t, []models.GroupCount{
		{Value: "2026-10-08", Count: 1},
		{Value: "2026-10-10", Count: 3},
		{Value: "2026-10-15", Count: 2},
	}, summary.RecentActivity)
	assert.Equal(t, "0.50", summary.AvgPerDay)

	var statusSum, departmentSum int64
	for _, g := range summary.ByStatus {
		statusSum += g.Count
	}
	for _, g := range summary.ByDepartment {
		departmentSum += g.Count
	}
	assert.Equal(t, summary.TotalCount, statusSum)
	assert.Equal(t, summary.TotalCount, departmentSum)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(models.StatsAggregate{}, NewWindow(fixedNow))
	assert.Zero(t, summary.TotalCount)
	assert.Empty(t, summary.ByDepartment)
	assert.NotNil(t, summary.RecentActivity)
	assert.Equal(t, "0.00", summary.AvgPerDay)
}

func TestComputeUsesOneWindow(t *testing.T) {
	reader := new(mockReader)
	want := NewWindow(fixedNow)
	reader.On("AggregateStats", mock.Anything, want).
		Return(models.NewStatsAggregate(1, nil, nil, nil, 1), nil)

	svc := NewService(reader, func() time.Time { return fixedNow })
	summary, err := svc.Compute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalCount)
	assert.Equal(t, "0.03", summary.AvgPerDay)
	reader.AssertExpectations(t)
}

func TestComputePropagatesStoreFailure(t *testing.T) {
	reader := new(mockReader)
	storeErr := utils.NewStoreUnavailable("aggregate feedback stats", errors.New("connection refused"))
	reader.On("AggregateStats", mock.Anything, mock.Anything).Return(models.StatsAggregate{}, storeErr)

	summary, err := NewService(reader, func() time.Time { return fixedNow }).Compute(context.Background())

	assert.Nil(t, summary)
	assert.True(t, utils.IsKind(err, utils.KindStoreUnavailable))
}
