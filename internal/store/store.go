// Package store defines the collection contract the record pipeline
// persists through, and the errors every backend maps its failures to.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"barangay-health-server/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested identity.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnavailable wraps every other backend failure.
	ErrUnavailable = errors.New("store unavailable")
)

// Collection is one record collection. Implementations own identity and
// timestamps: Insert assigns the id and both timestamps, Replace keeps the
// id and CreatedAt of the stored record and refreshes UpdatedAt.
type Collection[T models.Record] interface {
	Insert(ctx context.Context, rec T) error
	FindByID(ctx context.Context, id string) (T, error)
	// FindAll returns every record, oldest first.
	FindAll(ctx context.Context) ([]T, error)
	// FindByName returns records whose first and last name match. Matching
	// may be looser than exact (e.g. case-insensitive collations); callers
	// needing exact matches compare the results themselves.
	FindByName(ctx context.Context, first, last string) ([]T, error)
	Replace(ctx context.Context, rec T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// CountByMonth returns how many records were created in each month of
	// year, in loc. Index 0 is January.
	CountByMonth(ctx context.Context, year int, loc *time.Location) ([12]int64, error)
}

// Unavailable wraps err so it matches ErrUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// Lazy is a connection established on first use and shared afterwards.
// A failed dial is reported as ErrUnavailable; the next call dials again.
type Lazy[C any] struct {
	mu    sync.Mutex
	dial  func(ctx context.Context) (C, error)
	conn  C
	ready bool
}

// NewLazy returns a handle that dials on the first Get.
func NewLazy[C any](dial func(ctx context.Context) (C, error)) *Lazy[C] {
	return &Lazy[C]{dial: dial}
}

// Ready returns a handle around an established connection.
func Ready[C any](conn C) *Lazy[C] {
	return &Lazy[C]{conn: conn, ready: true}
}

// Get returns the shared connection, dialing it if needed.
func (l *Lazy[C]) Get(ctx context.Context) (C, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return l.conn, nil
	}
	conn, err := l.dial(ctx)
	if err != nil {
		var zero C
		return zero, Unavailable("connect", err)
	}
	l.conn, l.ready = conn, true
	return conn, nil
}

// Connected reports whether the connection has been established.
func (l *Lazy[C]) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Users is the staff account collection.
type Users interface {
	Collection[*models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Collections groups the collection of every record kind of one backend.
type Collections struct {
	Households     Collection[*models.Household]
	Pregnant       Collection[*models.Pregnant]
	SeniorCitizens Collection[*models.SeniorCitizen]
	FamilyPlanning Collection[*models.FamilyPlanning]
	Users          Users
}
