package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/store"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Collection[*models.Pregnant]
	clock time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	s.store = New[*models.Pregnant]()
	s.store.Now = func() time.Time { return s.clock }
}

func newPregnant(first, last string) *models.Pregnant {
	return &models.Pregnant{Person: models.Person{FirstName: first, LastName: last}, Weight: 50}
}

func (s *MemoryStoreSuite) TestInsertAssignsIdentity() {
	rec := newPregnant("Maria", "Santos")
	s.Require().NoError(s.store.Insert(s.ctx, rec))
	s.True(models.ValidID(rec.ID))
	s.Equal(s.clock, rec.CreatedAt)
	s.Equal(s.clock, rec.UpdatedAt)

	found, err := s.store.FindByID(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec, found)

	s.Run("returned records are copies", func() {
		found.Weight = 99
		again, err := s.store.FindByID(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(50.0, again.Weight)
	})
}

func (s *MemoryStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, store.ErrNotFound)

	rec := newPregnant("Ana", "Reyes")
	rec.ID = uuid.NewString()
	s.ErrorIs(s.store.Replace(s.ctx, rec), store.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, rec.ID), store.ErrNotFound)
}

func (s *MemoryStoreSuite) TestReplaceKeepsCreatedAt() {
	rec := newPregnant("Maria", "Santos")
	s.Require().NoError(s.store.Insert(s.ctx, rec))
	created := rec.CreatedAt

	s.clock = s.clock.Add(time.Hour)
	upd := newPregnant("Maria", "Santos")
	upd.ID = rec.ID
	upd.Weight = 60
	s.Require().NoError(s.store.Replace(s.ctx, upd))

	got, err := s.store.FindByID(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(created, got.CreatedAt)
	s.Equal(s.clock, got.UpdatedAt)
	s.Equal(60.0, got.Weight)
}

func (s *MemoryStoreSuite) TestFindByNameAndOrder() {
	for _, n := range [][2]string{{"Maria", "Santos"}, {"Ana", "Reyes"}, {"Maria", "Santos"}} {
		s.Require().NoError(s.store.Insert(s.ctx, newPregnant(n[0], n[1])))
	}

	matches, err := s.store.FindByName(s.ctx, "Maria", "Santos")
	s.Require().NoError(err)
	s.Len(matches, 2)

	none, err := s.store.FindByName(s.ctx, "maria", "santos")
	s.Require().NoError(err)
	s.Empty(none, "matching is exact")

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Ana", all[1].FirstName)

	s.Require().NoError(s.store.Delete(s.ctx, all[1].ID))
	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)
}

func (s *MemoryStoreSuite) TestCountByMonth() {
	for _, at := range []time.Time{
		time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC),
		time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
	} {
		s.clock = at
		s.Require().NoError(s.store.Insert(s.ctx, newPregnant(uuid.NewString(), "X")))
	}

	months, err := s.store.CountByMonth(s.ctx, 2024, time.UTC)
	s.Require().NoError(err)
	s.EqualValues(2, months[0])
	s.EqualValues(1, months[11])

	s.Run("months are bucketed in the given zone", func() {
		manila := time.FixedZone("PHT", 8*60*60)
		months, err := s.store.CountByMonth(s.ctx, 2024, manila)
		s.Require().NoError(err)
		s.EqualValues(0, months[11], "Dec 31 20:00 UTC is already January 2025 in Manila")
	})
}

func (s *MemoryStoreSuite) TestInjectedFailure() {
	s.store.Err = errors.New("disk on fire")
	err := s.store.Insert(s.ctx, newPregnant("Maria", "Santos"))
	s.ErrorIs(err, store.ErrUnavailable)
	_, err = s.store.FindAll(s.ctx)
	s.ErrorIs(err, store.ErrUnavailable)
}

func TestUserCollection(t *testing.T) {
	ctx := context.Background()
	users := Collections().Users

	require.NoError(t, users.Insert(ctx, &models.User{Username: "jluna"}))
	assert.ErrorIs(t, users.Insert(ctx, &models.User{Username: "jluna"}), store.ErrDuplicate)

	u, err := users.FindByUsername(ctx, "jluna")
	require.NoError(t, err)
	assert.Equal(t, "jluna", u.Username)

	_, err = users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSlicesAreNotShared(t *testing.T) {
	ctx := context.Background()
	households := New[*models.Household]()

	h := &models.Household{
		Name:    "Dela Cruz",
		Type:    models.HouseholdNuclear,
		Members: []models.Member{{FirstName: "Rosa", LastName: "Dela Cruz"}},
	}
	require.NoError(t, households.Insert(ctx, h))

	h.Members[0].FirstName = "Changed after insert"
	got, err := households.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", got.Members[0].FirstName)

	got.Members[0].FirstName = "Changed after find"
	got.Members = append(got.Members, models.Member{FirstName: "Extra"})
	again, err := households.FindByID(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, again.Members, 1)
	assert.Equal(t, "Rosa", again.Members[0].FirstName)

	seniors := New[*models.SeniorCitizen]()
	sc := &models.SeniorCitizen{Person: models.Person{FirstName: "Lola", LastName: "Basyang"}, Medicines: []string{"Losartan"}}
	require.NoError(t, seniors.Insert(ctx, sc))
	all, err := seniors.FindAll(ctx)
	require.NoError(t, err)
	all[0].Medicines[0] = "Changed"
	stored, err := seniors.FindByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Losartan"}, stored.Medicines)
}
