// Package memory is an in-process store.Collection used for local runs
// (DB_DRIVER=memory) and as the pipeline's test double.
package memory

import (
	"context"
	"reflect"
	"sync"
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/store"
)

// Collection keeps records in insertion order.
type Collection[T models.Record] struct {
	mu      sync.RWMutex
	records map[string]T
	order   []string

	// Now stamps CreatedAt/UpdatedAt. Defaults to time.Now.
	Now func() time.Time
	// Err, when set, makes every operation fail as unavailable.
	Err error
}

// New returns an empty collection.
func New[T models.Record]() *Collection[T] {
	return &Collection[T]{records: make(map[string]T), Now: time.Now}
}

var _ store.Collection[*models.Pregnant] = (*Collection[*models.Pregnant])(nil)

func (c *Collection[T]) fail(op string) error {
	if c.Err != nil {
		return store.Unavailable(op, c.Err)
	}
	return nil
}

func (c *Collection[T]) Insert(_ context.Context, rec T) error {
	if err := c.fail("insert"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	b := rec.Base()
	b.AssignID()
	if _, exists := c.records[b.ID]; exists {
		return store.ErrDuplicate
	}
	if u, ok := any(rec).(*models.User); ok {
		for _, other := range c.records {
			if any(other).(*models.User).Username == u.Username {
				return store.ErrDuplicate
			}
		}
	}
	now := c.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	c.records[b.ID] = clone(rec)
	c.order = append(c.order, b.ID)
	return nil
}

func (c *Collection[T]) FindByID(_ context.Context, id string) (T, error) {
	var zero T
	if err := c.fail("find"); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		return zero, store.ErrNotFound
	}
	return clone(rec), nil
}

func (c *Collection[T]) FindAll(_ context.Context) ([]T, error) {
	if err := c.fail("find all"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.records[id]))
	}
	return out, nil
}

func (c *Collection[T]) FindByName(_ context.Context, first, last string) ([]T, error) {
	if err := c.fail("find by name"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range c.order {
		rec := c.records[id]
		named, ok := any(rec).(models.Named)
		if !ok {
			continue
		}
		if f, l := named.FullName(); f == first && l == last {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func (c *Collection[T]) Replace(_ context.Context, rec T) error {
	if err := c.fail("replace"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b := rec.Base()
	stored, ok := c.records[b.ID]
	if !ok {
		return store.ErrNotFound
	}
	if u, ok := any(rec).(*models.User); ok {
		for id, other := range c.records {
			if id != b.ID && any(other).(*models.User).Username == u.Username {
				return store.ErrDuplicate
			}
		}
	}
	b.CreatedAt = stored.Base().CreatedAt
	b.UpdatedAt = c.Now()
	c.records[b.ID] = clone(rec)
	return nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	if err := c.fail("delete"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.records, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) Count(_ context.Context) (int64, error) {
	if err := c.fail("count"); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.records)), nil
}

func (c *Collection[T]) CountByMonth(_ context.Context, year int, loc *time.Location) ([12]int64, error) {
	var months [12]int64
	if err := c.fail("count by month"); err != nil {
		return months, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rec := range c.records {
		created := rec.Base().CreatedAt.In(loc)
		if created.Year() == year {
			months[created.Month()-1]++
		}
	}
	return months, nil
}

// clone copies the struct behind rec, including its slices, so callers
// cannot mutate stored state through the pointer they passed in or got back.
func clone[T models.Record](rec T) T {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return rec
	}
	cp := reflect.New(v.Elem().Type())
	cp.Elem().Set(v.Elem())
	copySlices(cp.Elem())
	return cp.Interface().(T)
}

// copySlices replaces every exported slice reachable from v with a fresh
// copy. Unexported fields (time.Time internals) are left as they are.
func copySlices(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				copySlices(f)
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			return
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		for i := 0; i < cp.Len(); i++ {
			copySlices(cp.Index(i))
		}
		v.Set(cp)
	}
}

// UserCollection is the in-memory staff account collection.
type UserCollection struct {
	*Collection[*models.User]
}

// FindByUsername returns the account named username.
func (u UserCollection) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	all, err := u.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range all {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

// Collections returns a fresh, empty collection of every kind.
func Collections() store.Collections {
	return store.Collections{
		Households:     New[*models.Household](),
		Pregnant:       New[*models.Pregnant](),
		SeniorCitizens: New[*models.SeniorCitizen](),
		FamilyPlanning: New[*models.FamilyPlanning](),
		Users:          UserCollection{New[*models.User]()},
	}
}
