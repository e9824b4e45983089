// Package test holds shared fixtures for package tests.
package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

// MemoryStore is an in-memory stand-in for the Mongo feedback store. Set Err
// to make every call fail as if the database were unreachable.
type MemoryStore struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]models.Feedback
	Err     error
}

// NewMemoryStore seeds a store with records, assigning ids where missing.
func NewMemoryStore(records ...models.Feedback) *MemoryStore {
	s := &MemoryStore{records: map[primitive.ObjectID]models.Feedback{}}
	for _, r := range records {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		s.records[r.ID] = r
	}
	return s
}

func (s *MemoryStore) fail(op string) error {
	if s.Err != nil {
		return utils.NewStoreUnavailable(op, s.Err)
	}
	return nil
}

func (s *MemoryStore) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("create feedback"); err != nil {
		return err
	}
	feedback.ID = primitive.NewObjectID()
	s.records[feedback.ID] = *feedback
	return nil
}

func (s *MemoryStore) Find(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("fetch feedback"); err != nil {
		return nil, err
	}
	out := make([]models.Feedback, 0, len(s.records))
	for _, r := range s.records {
		if filter.Department != "" && r.Department != filter.Department {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("fetch feedback"); err != nil {
		return nil, err
	}
	r, ok := s.records[id]
	if !ok {
		return nil, utils.NewNotFound("Feedback")
	}
	return &r, nil
}

func (s *MemoryStore) Update(_ context.Context, id primitive.ObjectID, update models.FeedbackUpdate) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update feedback"); err != nil {
		return nil, err
	}
	r, ok := s.records[id]
	if !ok {
		return nil, utils.NewNotFound("Feedback")
	}
	r, _ = apply(r, update)
	s.records[id] = r
	return &r, nil
}

func (s *MemoryStore) UpdateMany(_ context.Context, ids []primitive.ObjectID, update models.FeedbackUpdate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update feedback"); err != nil {
		return 0, err
	}
	var modified int64
	for _, id := range ids {
		r, ok := s.records[id]
		if !ok {
			continue
		}
		var changed bool
		if r, changed = apply(r, update); changed {
			s.records[id] = r
			modified++
		}
	}
	return modified, nil
}

func (s *MemoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete feedback"); err != nil {
		return err
	}
	if _, ok := s.records[id]; !ok {
		return utils.NewNotFound("Feedback")
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete feedback"); err != nil {
		return 0, err
	}
	var deleted int64
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// AggregateStats mirrors the Mongo $facet pipeline.
func (s *MemoryStore) AggregateStats(_ context.Context, window models.StatsWindow) (models.StatsAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("aggregate feedback stats"); err != nil {
		return models.StatsAggregate{}, err
	}

	departments := map[string]int64{}
	statuses := map[string]int64{}
	days := map[string]int64{}
	var averageWindow int64
	for _, r := range s.records {
		departments[string(r.Department)]++
		statuses[string(r.Status)]++
		if inWindow(r.CreatedAt, window.RecentSince, window.Now) {
			days[r.CreatedAt.UTC().Format("2006-01-02")]++
		}
		if inWindow(r.CreatedAt, window.AverageSince, window.Now) {
			averageWindow++
		}
	}

	byDepartment := groups(departments)
	sort.SliceStable(byDepartment, func(i, j int) bool { return byDepartment[i].Count > byDepartment[j].Count })

	return models.NewStatsAggregate(int64(len(s.records)), byDepartment, groups(statuses), groups(days), averageWindow), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func groups(counts map[string]int64) []models.GroupCount {
	out := make([]models.GroupCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, models.GroupCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func apply(r models.Feedback, update models.FeedbackUpdate) (models.Feedback, bool) {
	changed := false
	if update.Status != nil && r.Status != *update.Status {
		r.Status = *update.Status
		changed = true
	}
	if update.IsRead != nil && r.IsRead != *update.IsRead {
		r.IsRead = *update.IsRead
		changed = true
	}
	if update.Notes != nil && r.Notes != *update.Notes {
		r.Notes = *update.Notes
		changed = true
	}
	return r, changed
}
