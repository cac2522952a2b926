// Package gormstore persists records in a relational database through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/store"
)

// Drivers supported by Open.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Handle is the lazily established, process-wide database connection.
type Handle = store.Lazy[*gorm.DB]

// childReplacer is implemented by records that keep child rows in a
// separate table (household members).
type childReplacer interface {
	ReplaceChildren(tx *gorm.DB) error
}

// childOrderer names the column that orders each preloaded association.
type childOrderer interface {
	ChildOrder() map[string]string
}

// Open connects to the database described by driver and dsn.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, newConfig())
}

// newConfig stores timestamps in UTC so they compare consistently across
// drivers that keep datetimes as text.
func newConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates the tables of every record kind.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Household{},
		&models.Member{},
		&models.Pregnant{},
		&models.SeniorCitizen{},
		&models.FamilyPlanning{},
	)
}

// NewHandle returns a handle that opens and migrates the database on first use.
func NewHandle(driver, dsn string) *Handle {
	return store.NewLazy(func(ctx context.Context) (*gorm.DB, error) {
		db, err := Open(driver, dsn)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db.WithContext(ctx)); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	})
}

// Collection is a store.Collection backed by one table.
type Collection[T models.Record] struct {
	handle *Handle
	newFn  func() T
}

// NewCollection returns the collection of records created by newFn.
func NewCollection[T models.Record](h *Handle, newFn func() T) *Collection[T] {
	return &Collection[T]{handle: h, newFn: newFn}
}

var _ store.Collection[*models.Household] = (*Collection[*models.Household])(nil)

func (c *Collection[T]) db(ctx context.Context) (*gorm.DB, error) {
	db, err := c.handle.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// query scopes db to the collection's table and preloads child rows.
func (c *Collection[T]) query(db *gorm.DB) *gorm.DB {
	proto := c.newFn()
	q := db.Model(proto)
	if o, ok := any(proto).(childOrderer); ok {
		for assoc, column := range o.ChildOrder() {
			column := column
			q = q.Preload(assoc, func(tx *gorm.DB) *gorm.DB { return tx.Order(column) })
		}
	}
	return q
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	db, err := c.db(ctx)
	if err != nil {
		return err
	}
	rec.Base().AssignID()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if r, ok := any(rec).(childReplacer); ok {
			return r.ReplaceChildren(tx)
		}
		return nil
	})
	return mapErr("insert", err)
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	db, err := c.db(ctx)
	if err != nil {
		return zero, err
	}
	rec := c.newFn()
	if err := c.query(db).First(rec, "id = ?", id).Error; err != nil {
		return zero, mapErr("find", err)
	}
	return rec, nil
}

func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	db, err := c.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := c.query(db).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, mapErr("find all", err)
	}
	return out, nil
}

func (c *Collection[T]) FindByName(ctx context.Context, first, last string) ([]T, error) {
	db, err := c.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	err = c.query(db).Where("first_name = ? AND last_name = ?", first, last).Find(&out).Error
	if err != nil {
		return nil, mapErr("find by name", err)
	}
	return out, nil
}

func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	db, err := c.db(ctx)
	if err != nil {
		return err
	}
	b := rec.Base()
	err = db.Transaction(func(tx *gorm.DB) error {
		stored := c.newFn()
		if err := tx.Select("id", "created_at").First(stored, "id = ?", b.ID).Error; err != nil {
			return err
		}
		b.CreatedAt = stored.Base().CreatedAt
		if err := tx.Omit(clause.Associations).Save(rec).Error; err != nil {
			return err
		}
		if r, ok := any(rec).(childReplacer); ok {
			return r.ReplaceChildren(tx)
		}
		return nil
	})
	return mapErr("replace", err)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	db, err := c.db(ctx)
	if err != nil {
		return err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		rec := c.newFn()
		rec.Base().ID = id
		if r, ok := any(rec).(childReplacer); ok {
			if err := r.ReplaceChildren(tx); err != nil {
				return err
			}
		}
		res := tx.Delete(rec, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	return mapErr("delete", err)
}

func (c *Collection[T]) Count(ctx context.Context) (int64, error) {
	db, err := c.db(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Model(c.newFn()).Count(&n).Error; err != nil {
		return 0, mapErr("count", err)
	}
	return n, nil
}

// CountByMonth buckets creation times in Go so the query stays portable
// across MySQL, Postgres and SQLite date functions.
func (c *Collection[T]) CountByMonth(ctx context.Context, year int, loc *time.Location) ([12]int64, error) {
	var months [12]int64
	db, err := c.db(ctx)
	if err != nil {
		return months, err
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0)
	var created []time.Time
	err = db.Model(c.newFn()).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Pluck("created_at", &created).Error
	if err != nil {
		return months, mapErr("count by month", err)
	}
	for _, t := range created {
		if t = t.In(loc); t.Year() == year {
			months[t.Month()-1]++
		}
	}
	return months, nil
}

func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	}
	return store.Unavailable(op, err)
}

// isUniqueViolation catches unique-index failures from drivers that do not
// translate them to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// UserCollection is the staff account table.
type UserCollection struct {
	*Collection[*models.User]
}

// FindByUsername returns the account named username.
func (u UserCollection) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	db, err := u.db(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapErr("find by username", err)
	}
	return &user, nil
}

// Collections returns every record collection sharing handle h.
func Collections(h *Handle) store.Collections {
	return store.Collections{
		Households:     NewCollection(h, func() *models.Household { return &models.Household{} }),
		Pregnant:       NewCollection(h, func() *models.Pregnant { return &models.Pregnant{} }),
		SeniorCitizens: NewCollection(h, func() *models.SeniorCitizen { return &models.SeniorCitizen{} }),
		FamilyPlanning: NewCollection(h, func() *models.FamilyPlanning { return &models.FamilyPlanning{} }),
		Users:          UserCollection{NewCollection(h, func() *models.User { return &models.User{} })},
	}
}
