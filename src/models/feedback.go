package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is the closed set of departments feedback can be tagged with.
type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentHR          Department = "HR"
	DepartmentSales       Department = "Sales"
	DepartmentMarketing   Department = "Marketing"
	DepartmentFinance     Department = "Finance"
	DepartmentOperations  Department = "Operations"
)

// Departments lists every valid department in display order.
var Departments = []Department{
	DepartmentEngineering,
	DepartmentHR,
	DepartmentSales,
	DepartmentMarketing,
	DepartmentFinance,
	DepartmentOperations,
}

// IsValid reports whether d is one of Departments.
func (d Department) IsValid() bool {
	for _, dep := range Departments {
		if dep == d {
			return true
		}
	}
	return false
}

// DepartmentNames returns Departments joined for error messages.
func DepartmentNames() string {
	names := make([]string, len(Departments))
	for i, d := range Departments {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// Status is the triage state of a feedback record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusResolved Status = "resolved"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusReviewed, StatusResolved}

// StatusNames returns Statuses joined for error messages.
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

const (
	NameMaxLength    = 80
	MessageMaxLength = 1000
	NotesMaxLength   = 2000
)

// Feedback is a single employee submission.
type Feedback struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Department Department         `bson:"department" json:"department"`
	Message    string             `bson:"message" json:"message"`
	Status     Status             `bson:"status" json:"status"`
	IsRead     bool               `bson:"isRead" json:"isRead"`
	Notes      string             `bson:"notes" json:"notes"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateFeedbackRequest is the public submission payload.
type CreateFeedbackRequest struct {
	Name       string `json:"name" validate:"required,max=80" example:"Alice"`
	Department string `json:"department" validate:"required,oneof=Engineering HR Sales Marketing Finance Operations" example:"Engineering"`
	Message    string `json:"message" validate:"required,max=1000" example:"The build is slow"`
}

// Normalize trims the free-text fields.
func (r *CreateFeedbackRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Department = strings.TrimSpace(r.Department)
	r.Message = strings.TrimSpace(r.Message)
}

// FeedbackUpdate carries the admin-editable fields. Nil fields are left unchanged.
type FeedbackUpdate struct {
	Status *Status `json:"status,omitempty" validate:"omitnil,oneof=pending reviewed resolved"`
	IsRead *bool   `json:"isRead,omitempty"`
	Notes  *string `json:"notes,omitempty" validate:"omitnil,max=2000"`
}

// IsEmpty reports whether the update changes nothing.
func (u FeedbackUpdate) IsEmpty() bool {
	return u.Status == nil && u.IsRead == nil && u.Notes == nil
}

// SetDocument renders the update as a $set document.
func (u FeedbackUpdate) SetDocument() bson.M {
	set := bson.M{}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.IsRead != nil {
		set["isRead"] = *u.IsRead
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	return set
}

// BulkDeleteRequest is the body of POST /feedback/bulk-delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkUpdateRequest is the body of POST /feedback/bulk-update. UpdateData is
// kept raw so a non-object payload can be told apart from an empty one.
type BulkUpdateRequest struct {
	IDs        []string        `json:"ids"`
	UpdateData json.RawMessage `json:"updateData" swaggertype:"object"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// BulkDeleteResponse reports how many records were removed.
type BulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// BulkUpdateResponse reports how many records were modified.
type BulkUpdateResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

// FeedbackFilter narrows a listing on the store side.
type FeedbackFilter struct {
	Department Department
}
