//go:build integration

package mongostore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/store"
	"barangay-health-server/internal/store/mongostore"
	"barangay-health-server/internal/testutil/containers"
)

type MongoStoreSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	ctx   context.Context
	cols  store.Collections
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) SetupSuite() {
	s.mongo = containers.NewMongoContainer(s.T())
}

func (s *MongoStoreSuite) SetupTest() {
	s.ctx = context.Background()
	// A fresh database per test keeps them isolated.
	db := "barangay_" + uuid.NewString()[:8]
	s.cols = mongostore.Collections(mongostore.NewHandle(s.mongo.URI, db))
}

func (s *MongoStoreSuite) TestHouseholdRoundTrip() {
	h := &models.Household{
		Name:  "Dela Cruz",
		Type:  models.HouseholdExtended,
		Purok: "Purok 2",
		Members: []models.Member{
			{FirstName: "Rosa", LastName: "Dela Cruz", BirthDate: time.Date(1982, 7, 7, 0, 0, 0, 0, time.UTC), Gender: models.GenderFemale},
			{FirstName: "Juan", LastName: "Dela Cruz", BirthDate: time.Date(1980, 5, 5, 0, 0, 0, 0, time.UTC), Gender: models.GenderMale},
		},
	}
	s.Require().NoError(s.cols.Households.Insert(s.ctx, h))
	s.True(models.ValidID(h.ID))

	got, err := s.cols.Households.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(h.Name, got.Name)
	s.Require().Len(got.Members, 2)
	s.Equal("Rosa", got.Members[0].FirstName)
	s.True(h.Members[1].BirthDate.Equal(got.Members[1].BirthDate))

	s.Run("replace keeps createdAt", func() {
		upd := &models.Household{Name: "Dela Cruz-Reyes", Type: models.HouseholdOther}
		upd.ID = h.ID
		s.Require().NoError(s.cols.Households.Replace(s.ctx, upd))

		got, err := s.cols.Households.FindByID(s.ctx, h.ID)
		s.Require().NoError(err)
		s.Equal("Dela Cruz-Reyes", got.Name)
		s.Empty(got.Members)
		s.True(h.CreatedAt.Equal(got.CreatedAt))
	})

	s.Run("delete twice", func() {
		s.Require().NoError(s.cols.Households.Delete(s.ctx, h.ID))
		s.ErrorIs(s.cols.Households.Delete(s.ctx, h.ID), store.ErrNotFound)
		_, err := s.cols.Households.FindByID(s.ctx, h.ID)
		s.ErrorIs(err, store.ErrNotFound)
	})
}

func (s *MongoStoreSuite) TestFindByNameAndCount() {
	for _, n := range [][2]string{{"Maria", "Santos"}, {"Ana", "Reyes"}} {
		rec := &models.Pregnant{Person: models.Person{FirstName: n[0], LastName: n[1]}, Weight: 50}
		s.Require().NoError(s.cols.Pregnant.Insert(s.ctx, rec))
	}

	matches, err := s.cols.Pregnant.FindByName(s.ctx, "Maria", "Santos")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("Santos", matches[0].LastName)

	all, err := s.cols.Pregnant.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)

	n, err := s.cols.Pregnant.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)

	months, err := s.cols.Pregnant.CountByMonth(s.ctx, time.Now().Year(), time.UTC)
	s.Require().NoError(err)
	s.EqualValues(2, months[time.Now().UTC().Month()-1])
}

func (s *MongoStoreSuite) TestUsernameIndex() {
	s.Require().NoError(s.cols.Users.Insert(s.ctx, &models.User{Username: "jluna", Password: "hash"}))
	err := s.cols.Users.Insert(s.ctx, &models.User{Username: "jluna", Password: "hash"})
	s.ErrorIs(err, store.ErrDuplicate)

	u, err := s.cols.Users.FindByUsername(s.ctx, "jluna")
	s.Require().NoError(err)
	s.Equal("hash", u.Password)
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cols := mongostore.Collections(mongostore.NewHandle("mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=500", "x"))
	_, err := cols.Pregnant.FindAll(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
