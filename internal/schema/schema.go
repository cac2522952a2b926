// Package schema describes how each record kind is decoded from a submitted
// field map, validated and normalized before it reaches a store.
package schema

import (
	"context"
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

// Op names a record operation.
type Op string

const (
	OpCreate Op = "create"
	OpGet    Op = "get"
	OpList   Op = "list"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Counter reports how many records a collection holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Schema is the per-kind descriptor driving the record pipeline.
type Schema[T models.Record] struct {
	Kind models.Kind

	// New returns an empty record.
	New func() T

	// Decode turns submitted fields into a normalized record. Derived fields
	// are computed against now. A non-empty FieldErrors means the submission
	// is rejected.
	Decode func(f Fields, op Op, now time.Time) (T, utils.FieldErrors)

	// Unique enables the duplicate-name guard on create. T must implement
	// models.Named.
	Unique bool

	// DuplicateField is the field blamed when the store rejects a write as
	// a duplicate (a unique index), if any.
	DuplicateField string

	// BeforeCreate runs on a decoded record right before it is inserted.
	BeforeCreate func(ctx context.Context, rec T, existing Counter) error

	// Merge carries stored values into an incoming replacement when the
	// submission left them blank.
	Merge func(stored, incoming T)
}

// checkBirthDate rejects birth dates after today.
func checkBirthDate(fe utils.FieldErrors, field string, birth *time.Time, now time.Time) {
	if birth != nil && isFuture(*birth, now) {
		fe.Add(field, label(field)+" must not be in the future")
	}
}
