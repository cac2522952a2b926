// Package mongostore persists records as MongoDB documents.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/store"
)

// Collection names.
const (
	Households     = "households"
	Pregnant       = "pregnant"
	SeniorCitizens = "senior_citizens"
	FamilyPlanning = "family_planning"
	Users          = "users"
)

// Handle is the lazily established, process-wide database connection.
type Handle = store.Lazy[*mongo.Database]

// NewHandle returns a handle that connects and ensures indexes on first use.
func NewHandle(uri, database string) *Handle {
	return store.NewLazy(func(ctx context.Context) (*mongo.Database, error) {
		return Connect(ctx, uri, database)
	})
}

// Connect opens a client, checks it is reachable and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return db, nil
}

// EnsureIndexes creates the unique username index and the name lookup
// indexes used by the duplicate guard.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(Users).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	for _, name := range []string{Pregnant, SeniorCitizens, FamilyPlanning} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Collection is a store.Collection backed by one MongoDB collection.
type Collection[T models.Record] struct {
	handle *Handle
	name   string
	newFn  func() T
}

// NewCollection returns the named collection of records created by newFn.
func NewCollection[T models.Record](h *Handle, name string, newFn func() T) *Collection[T] {
	return &Collection[T]{handle: h, name: name, newFn: newFn}
}

var _ store.Collection[*models.Pregnant] = (*Collection[*models.Pregnant])(nil)

func (c *Collection[T]) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := c.handle.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(c.name), nil
}

// now is truncated to BSON datetime precision so a stored record reads
// back equal to the one that was written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	coll, err := c.coll(ctx)
	if err != nil {
		return err
	}
	b := rec.Base()
	b.AssignID()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	_, err = coll.InsertOne(ctx, rec)
	return mapErr("insert", err)
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	coll, err := c.coll(ctx)
	if err != nil {
		return zero, err
	}
	rec := c.newFn()
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(rec); err != nil {
		return zero, mapErr("find", err)
	}
	return rec, nil
}

func (c *Collection[T]) find(ctx context.Context, op string, filter bson.M) ([]T, error) {
	coll, err := c.coll(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(op, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}

func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	return c.find(ctx, "find all", bson.M{})
}

func (c *Collection[T]) FindByName(ctx context.Context, first, last string) ([]T, error) {
	return c.find(ctx, "find by name", bson.M{"firstName": first, "lastName": last})
}

func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	coll, err := c.coll(ctx)
	if err != nil {
		return err
	}
	b := rec.Base()
	var stored struct {
		CreatedAt time.Time `bson:"createdAt"`
	}
	err = coll.FindOne(ctx, bson.M{"_id": b.ID}, options.FindOne().SetProjection(bson.M{"createdAt": 1})).Decode(&stored)
	if err != nil {
		return mapErr("replace", err)
	}
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = now()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, rec)
	if err != nil {
		return mapErr("replace", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	coll, err := c.coll(ctx)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Count(ctx context.Context) (int64, error) {
	coll, err := c.coll(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapErr("count", err)
	}
	return n, nil
}

// CountByMonth groups creation times server-side. The zone is passed as
// the UTC offset at the start of year.
func (c *Collection[T]) CountByMonth(ctx context.Context, year int, loc *time.Location) ([12]int64, error) {
	var months [12]int64
	coll, err := c.coll(ctx)
	if err != nil {
		return months, err
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": start, "$lt": end}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$month": bson.M{
				"date":     "$createdAt",
				"timezone": start.Format("-07:00"),
			}},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return months, mapErr("count by month", err)
	}
	var rows []struct {
		Month int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return months, mapErr("count by month", err)
	}
	for _, r := range rows {
		if r.Month >= 1 && r.Month <= 12 {
			months[r.Month-1] = r.Count
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
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	}
	return store.Unavailable(op, err)
}

// UserCollection is the staff account collection.
type UserCollection struct {
	*Collection[*models.User]
}

// FindByUsername returns the account named username.
func (u UserCollection) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	coll, err := u.coll(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := coll.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, mapErr("find by username", err)
	}
	return &user, nil
}

// Collections returns every record collection sharing handle h.
func Collections(h *Handle) store.Collections {
	return store.Collections{
		Households:     NewCollection(h, Households, func() *models.Household { return &models.Household{} }),
		Pregnant:       NewCollection(h, Pregnant, func() *models.Pregnant { return &models.Pregnant{} }),
		SeniorCitizens: NewCollection(h, SeniorCitizens, func() *models.SeniorCitizen { return &models.SeniorCitizen{} }),
		FamilyPlanning: NewCollection(h, FamilyPlanning, func() *models.FamilyPlanning { return &models.FamilyPlanning{} }),
		Users:          UserCollection{NewCollection(h, Users, func() *models.User { return &models.User{} })},
	}
}
