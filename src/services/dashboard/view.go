package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"employee-feedback/src/models"
)

// SortKey selects the ordering of a derived view.
type SortKey string

const (
	SortDateDesc SortKey = "date-desc"
	SortDateAsc  SortKey = "date-asc"
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
	SortStatus   SortKey = "status"
)

const dateLayout = "2006-01-02"

// ParseSortKey validates a sort key; empty means newest first.
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(raw)); key {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc, SortStatus:
		return key, nil
	default:
		return "", fmt.Errorf("invalid sort %q. Must be one of: date-desc, date-asc, name-asc, name-desc, status", raw)
	}
}

// Date is a civil calendar date without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// StartOfDay returns 00:00:00.000 of d in loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of d in loc.
func (d Date) EndOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// DateRange bounds createdAt by civil dates; nil bounds are unconstrained.
type DateRange struct {
	Start *Date
	End   *Date
}

// Criteria are the client-side filters applied on top of a fetched record set.
type Criteria struct {
	Search   string
	Range    DateRange
	Sort     SortKey
	Location *time.Location
}

// IsZero reports whether the criteria leave a newest-first listing unchanged.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && c.Range.Start == nil && c.Range.End == nil &&
		(c.Sort == "" || c.Sort == SortDateDesc)
}

// Derive filters and orders records. The input slice is never modified.
func Derive(records []models.Feedback, c Criteria) []models.Feedback {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}

	query := strings.ToLower(strings.TrimSpace(c.Search))
	var start, end time.Time
	if c.Range.Start != nil {
		start = c.Range.Start.StartOfDay(loc)
	}
	if c.Range.End != nil {
		end = c.Range.End.EndOfDay(loc)
	}

	view := make([]models.Feedback, 0, len(records))
	for _, r := range records {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Message), query) {
			continue
		}
		if c.Range.Start != nil && r.CreatedAt.Before(start) {
			continue
		}
		if c.Range.End != nil && r.CreatedAt.After(end) {
			continue
		}
		view = append(view, r)
	}

	sortView(view, c.Sort)
	return view
}

func sortView(view []models.Feedback, key SortKey) {
	switch key {
	case "", SortDateDesc:
		sort.SliceStable(view, func(i, j int) bool { return view[i].CreatedAt.After(view[j].CreatedAt) })
	case SortDateAsc:
		sort.SliceStable(view, func(i, j int) bool { return view[i].CreatedAt.Before(view[j].CreatedAt) })
	case SortNameAsc, SortNameDesc:
		col := collate.New(language.English)
		sort.SliceStable(view, func(i, j int) bool {
			cmp := col.CompareString(view[i].Name, view[j].Name)
			if key == SortNameDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	case SortStatus:
		// Literal string order, so "pending" < "resolved" < "reviewed".
		sort.SliceStable(view, func(i, j int) bool { return view[i].Status < view[j].Status })
	}
}
