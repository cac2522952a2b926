// Package pipeline runs the validated-record operations shared by every
// record kind: decode and normalize a submission, guard against duplicate
// names, persist through a store.Collection and report a Result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
	"barangay-health-server/internal/store"
	"barangay-health-server/internal/utils"
)

// Observer is told the outcome of every operation.
type Observer interface {
	Observe(ctx context.Context, kind models.Kind, op schema.Op, outcome string)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, kind models.Kind, op schema.Op, outcome string)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, kind models.Kind, op schema.Op, outcome string) {
	f(ctx, kind, op, outcome)
}

// Options configures a Pipeline. The zero value is usable.
type Options struct {
	Logger    *zap.Logger
	Now       func() time.Time
	Observers []Observer
}

// Pipeline runs the record operations of one kind.
//
// The duplicate guard and the insert are separate store calls with no lock
// between them: two concurrent creates for the same name can both succeed.
type Pipeline[T models.Record] struct {
	schema    schema.Schema[T]
	store     store.Collection[T]
	log       *zap.Logger
	now       func() time.Time
	observers []Observer
}

// New returns the pipeline for s persisting into c.
func New[T models.Record](s schema.Schema[T], c store.Collection[T], opts Options) *Pipeline[T] {
	p := &Pipeline[T]{
		schema:    s,
		store:     c,
		log:       opts.Logger,
		now:       opts.Now,
		observers: opts.Observers,
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Kind returns the record kind the pipeline serves.
func (p *Pipeline[T]) Kind() models.Kind {
	return p.schema.Kind
}

// Create validates f, refuses duplicate names and inserts the new record.
func (p *Pipeline[T]) Create(ctx context.Context, f schema.Fields) (res Result[T]) {
	defer p.observe(ctx, schema.OpCreate, &res)

	rec, fe := p.schema.Decode(f, schema.OpCreate, p.now())
	if len(fe) > 0 {
		return p.invalid(fe)
	}
	if p.schema.Unique {
		if dup, err := p.nameTaken(ctx, rec); err != nil {
			return failure[T](p, schema.OpCreate, err)
		} else if dup {
			first, last := any(rec).(models.Named).FullName()
			return fail[T](ReasonDuplicate,
				fmt.Sprintf("%s for %s %s already exists", p.schema.Kind.Label(), first, last),
				utils.FieldErrors{
					"firstName": "a record with this first and last name already exists",
					"lastName":  "a record with this first and last name already exists",
				})
		}
	}
	if p.schema.BeforeCreate != nil {
		if err := p.schema.BeforeCreate(ctx, rec, p.store); err != nil {
			return failure[T](p, schema.OpCreate, err)
		}
	}
	if err := p.store.Insert(ctx, rec); err != nil {
		return failure[T](p, schema.OpCreate, err)
	}
	return succeed(rec, p.schema.Kind.Label()+" created successfully")
}

// Get returns the record with identity id.
func (p *Pipeline[T]) Get(ctx context.Context, id string) (res Result[T]) {
	defer p.observe(ctx, schema.OpGet, &res)

	if fe := checkID(id); fe != nil {
		return p.invalid(fe)
	}
	rec, err := p.store.FindByID(ctx, id)
	if err != nil {
		return failure[T](p, schema.OpGet, err)
	}
	return succeed(rec, p.schema.Kind.Label()+" fetched successfully")
}

// List returns every record in store order.
func (p *Pipeline[T]) List(ctx context.Context) (res Result[[]T]) {
	defer p.observe(ctx, schema.OpList, &res)

	recs, err := p.store.FindAll(ctx)
	if err != nil {
		return failure[[]T](p, schema.OpList, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return succeed(recs, p.schema.Kind.Plural()+" fetched successfully")
}

// Update replaces the editable fields of record id with the submission.
// Identity and CreatedAt are kept; the duplicate guard does not apply.
func (p *Pipeline[T]) Update(ctx context.Context, id string, f schema.Fields) (res Result[T]) {
	defer p.observe(ctx, schema.OpUpdate, &res)

	if fe := checkID(id); fe != nil {
		return p.invalid(fe)
	}
	stored, err := p.store.FindByID(ctx, id)
	if err != nil {
		return failure[T](p, schema.OpUpdate, err)
	}
	rec, fe := p.schema.Decode(f, schema.OpUpdate, p.now())
	if len(fe) > 0 {
		return p.invalid(fe)
	}
	b := rec.Base()
	b.ID = stored.Base().ID
	b.CreatedAt = stored.Base().CreatedAt
	if p.schema.Merge != nil {
		p.schema.Merge(stored, rec)
	}
	if err := p.store.Replace(ctx, rec); err != nil {
		return failure[T](p, schema.OpUpdate, err)
	}
	return succeed(rec, p.schema.Kind.Label()+" updated successfully")
}

// Delete removes record id. The payload is the deleted identity.
func (p *Pipeline[T]) Delete(ctx context.Context, id string) (res Result[string]) {
	defer p.observe(ctx, schema.OpDelete, &res)

	if fe := checkID(id); fe != nil {
		return fail[string](ReasonValidation, "Invalid "+p.schema.Kind.Label()+" id", fe)
	}
	if _, err := p.store.FindByID(ctx, id); err != nil {
		return failure[string](p, schema.OpDelete, err)
	}
	if err := p.store.Delete(ctx, id); err != nil {
		return failure[string](p, schema.OpDelete, err)
	}
	return succeed(id, p.schema.Kind.Label()+" deleted successfully")
}

// nameTaken reports whether a stored record has exactly rec's name. The
// store may match loosely, so names are compared again here.
func (p *Pipeline[T]) nameTaken(ctx context.Context, rec T) (bool, error) {
	named, ok := any(rec).(models.Named)
	if !ok {
		return false, nil
	}
	first, last := named.FullName()
	matches, err := p.store.FindByName(ctx, first, last)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if n, ok := any(m).(models.Named); ok {
			if f, l := n.FullName(); f == first && l == last {
				return true, nil
			}
		}
	}
	return false, nil
}

// checkID rejects identities the stores could never have issued.
func checkID(id string) utils.FieldErrors {
	switch {
	case id == "":
		return utils.FieldErrors{"id": "id is required"}
	case !models.ValidID(id):
		return utils.FieldErrors{"id": "id must be a valid identifier"}
	}
	return nil
}

func (p *Pipeline[T]) invalid(fe utils.FieldErrors) Result[T] {
	return fail[T](ReasonValidation, "Invalid "+p.schema.Kind.Label()+" data", fe)
}

func (p *Pipeline[T]) observe(ctx context.Context, op schema.Op, res outcomer) {
	outcome := res.Outcome()
	for _, o := range p.observers {
		o.Observe(ctx, p.schema.Kind, op, outcome)
	}
}

type outcomer interface {
	Outcome() string
}

// failure maps a store error to the matching Result. Raw store errors are
// logged, never returned.
func failure[P any, T models.Record](p *Pipeline[T], op schema.Op, err error) Result[P] {
	label := p.schema.Kind.Label()
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.log.Debug("record not found", zap.String("kind", string(p.schema.Kind)), zap.String("op", string(op)))
		return fail[P](ReasonNotFound, label+" not found", nil)
	case errors.Is(err, store.ErrDuplicate):
		p.log.Debug("duplicate record", zap.String("kind", string(p.schema.Kind)), zap.String("op", string(op)))
		var fe utils.FieldErrors
		if field := p.schema.DuplicateField; field != "" {
			fe = utils.FieldErrors{field: field + " is already taken"}
		}
		return fail[P](ReasonDuplicate, label+" already exists", fe)
	}
	p.log.Error("record store failure",
		zap.String("kind", string(p.schema.Kind)),
		zap.String("op", string(op)),
		zap.Error(err))
	return fail[P](ReasonUnavailable, "Failed to "+string(op)+" "+label+". Please try again later.", nil)
}
