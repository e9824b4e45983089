package feedbacks

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"employee-feedback/src/models"
)

var exportHeader = []string{"Name", "Department", "Message", "Status", "Date", "Notes"}

const exportDateLayout = "Jan 2, 2006, 03:04 PM"

// Export renders the listing selected by q as CSV. Dates are shown in loc.
func (s *Service) Export(ctx context.Context, q ListQuery, loc *time.Location) ([]byte, error) {
	records, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return WriteCSV(records, loc)
}

// WriteCSV encodes records with a header row.
func WriteCSV(records []models.Feedback, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		status := r.Status
		if status == "" {
			status = models.StatusPending
		}
		row := []string{
			r.Name,
			string(r.Department),
			r.Message,
			string(status),
			r.CreatedAt.In(loc).Format(exportDateLayout),
			r.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename names the attachment after the export day.
func ExportFilename(now time.Time) string {
	return "feedback-export-" + now.UTC().Format("2006-01-02") + ".csv"
}
