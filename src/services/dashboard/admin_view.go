package dashboard

import (
	"employee-feedback/src/models"
)

// AdminView is the admin table state: the fetched records, the criteria
// applied to them and the bulk selection.
//
// The selection is scoped to a department. Changing the department clears it;
// changing search, dates or sort does not, so it can hold ids that are no
// longer visible.
type AdminView struct {
	department models.Department
	records    []models.Feedback
	criteria   Criteria
	selection  *Selection
}

// NewAdminView starts with no department filter and newest-first sort.
func NewAdminView(criteria Criteria) *AdminView {
	if criteria.Sort == "" {
		criteria.Sort = SortDateDesc
	}
	return &AdminView{criteria: criteria, selection: NewSelection()}
}

// Department returns the department the records were fetched for.
func (v *AdminView) Department() models.Department {
	return v.department
}

// SetDepartment switches the fetch scope and clears the selection. The caller
// re-fetches records for the new department and passes them to Load.
func (v *AdminView) SetDepartment(d models.Department) {
	v.department = d
	v.selection.Clear()
}

// Load replaces the record snapshot after a fetch.
func (v *AdminView) Load(records []models.Feedback) {
	v.records = records
}

func (v *AdminView) SetSearch(q string) {
	v.criteria.Search = q
}

func (v *AdminView) SetSort(key SortKey) {
	v.criteria.Sort = key
}

func (v *AdminView) SetDateRange(r DateRange) {
	v.criteria.Range = r
}

// Rows returns the derived view of the current snapshot.
func (v *AdminView) Rows() []models.Feedback {
	return Derive(v.records, v.criteria)
}

// SelectAll selects every row currently visible.
func (v *AdminView) SelectAll() {
	v.selection.SelectAll(v.Rows())
}

// Toggle flips one id in the selection.
func (v *AdminView) Toggle(id string) bool {
	return v.selection.Toggle(id)
}

// BulkIDs returns exactly the selected ids for a bulk action.
func (v *AdminView) BulkIDs() []string {
	return v.selection.IDs()
}

// ClearSelection is called after a successful bulk action.
func (v *AdminView) ClearSelection() {
	v.selection.Clear()
}
