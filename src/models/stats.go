package models

import "time"

// GroupCount is one (value, count) pair of a grouping aggregation.
type GroupCount struct {
	Value string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// StatsSummary is the dashboard statistics payload.
type StatsSummary struct {
	TotalCount     int64        `json:"totalCount"`
	ByDepartment   []GroupCount `json:"byDepartment"`
	ByStatus       []GroupCount `json:"byStatus"`
	RecentActivity []GroupCount `json:"recentActivity"`
	AvgPerDay      string       `json:"avgPerDay" example:"0.50"`
}

// StatsWindow fixes the clock reading used by one statistics computation.
type StatsWindow struct {
	Now          time.Time
	RecentSince  time.Time
	AverageSince time.Time
}

type countRow struct {
	Count int64 `bson:"count"`
}

// StatsAggregate is the raw result of the store's statistics facet query.
type StatsAggregate struct {
	Total          []countRow   `bson:"total"`
	ByDepartment   []GroupCount `bson:"byDepartment"`
	ByStatus       []GroupCount `bson:"byStatus"`
	RecentActivity []GroupCount `bson:"recentActivity"`
	AverageWindow  []countRow   `bson:"averageWindow"`
}

// NewStatsAggregate builds an aggregate from already counted values.
func NewStatsAggregate(total int64, byDepartment, byStatus, recent []GroupCount, averageWindow int64) StatsAggregate {
	return StatsAggregate{
		Total:          []countRow{{Count: total}},
		ByDepartment:   byDepartment,
		ByStatus:       byStatus,
		RecentActivity: recent,
		AverageWindow:  []countRow{{Count: averageWindow}},
	}
}

// TotalCount returns the number of records, zero for an empty collection.
func (a StatsAggregate) TotalCount() int64 {
	if len(a.Total) == 0 {
		return 0
	}
	return a.Total[0].Count
}

// AverageWindowCount returns the number of records inside the average window.
func (a StatsAggregate) AverageWindowCount() int64 {
	if len(a.AverageWindow) == 0 {
		return 0
	}
	return a.AverageWindow[0].Count
}
