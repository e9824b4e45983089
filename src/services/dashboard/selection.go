package dashboard

import (
	"employee-feedback/src/models"
)

// Selection is the set of record ids picked for a bulk action, kept in pick order.
type Selection struct {
	ids   map[string]struct{}
	order []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// SelectAll replaces the selection with every id in view.
func (s *Selection) SelectAll(view []models.Feedback) {
	s.Clear()
	for _, r := range view {
		s.add(r.ID.Hex())
	}
}

// Toggle adds id when absent and removes it when present. It reports
// whether id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		delete(s.ids, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.add(id)
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.order)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = map[string]struct{}{}
	s.order = nil
}

func (s *Selection) add(id string) {
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}
