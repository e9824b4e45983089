package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"employee-feedback/src/models"
)

// FixedNow is the clock used across package tests.
var FixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// Clock returns a func reporting FixedNow.
func Clock() func() time.Time {
	return func() time.Time { return FixedNow }
}

// Feedback builds a record created daysAgo days before FixedNow.
func Feedback(name string, dep models.Department, status models.Status, daysAgo int) models.Feedback {
	return models.Feedback{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Department: dep,
		Message:    "message from " + name,
		Status:     status,
		CreatedAt:  FixedNow.AddDate(0, 0, -daysAgo),
	}
}

func StatusPtr(s models.Status) *models.Status { return &s }

func BoolPtr(b bool) *bool { return &b }

func StringPtr(s string) *string { return &s }
