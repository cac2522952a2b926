package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
	"barangay-health-server/internal/store"
	"barangay-health-server/internal/store/memory"
)

// mapCache is an in-process Cache that records how it was used.
type mapCache struct {
	entries     map[string]*Summary
	hits        int
	invalidated int
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]*Summary{}} }

func (c *mapCache) Get(_ context.Context, key string) (*Summary, bool) {
	s, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *mapCache) Set(_ context.Context, key string, s *Summary) { c.entries[key] = s }

func (c *mapCache) Invalidate(context.Context) {
	c.invalidated++
	c.entries = map[string]*Summary{}
}

type AnalyticsSuite struct {
	suite.Suite
	ctx        context.Context
	households *memory.Collection[*models.Household]
	pregnant   *memory.Collection[*models.Pregnant]
	cols       store.Collections
	cache      *mapCache
	svc        *Service
}

func TestAnalyticsSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsSuite))
}

func (s *AnalyticsSuite) SetupTest() {
	s.ctx = context.Background()
	s.households = memory.New[*models.Household]()
	s.pregnant = memory.New[*models.Pregnant]()
	s.cols = memory.Collections()
	s.cols.Households = s.households
	s.cols.Pregnant = s.pregnant
	s.cache = newMapCache()
	s.svc = NewService(s.cols, s.cache, time.UTC, nil)
}

func (s *AnalyticsSuite) addHousehold(at time.Time) {
	s.households.Now = func() time.Time { return at }
	s.Require().NoError(s.households.Insert(s.ctx, &models.Household{Name: "H", Type: models.HouseholdNuclear}))
}

func (s *AnalyticsSuite) TestSummaryCounts() {
	s.addHousehold(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	s.addHousehold(time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC))
	s.addHousehold(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	s.addHousehold(time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(s.pregnant.Insert(s.ctx, &models.Pregnant{Person: models.Person{FirstName: "Maria", LastName: "Santos"}}))

	sum, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Equal(2024, sum.Year)
	s.EqualValues(4, sum.Households)
	s.EqualValues(1, sum.Pregnant)
	s.Zero(sum.SeniorCitizens)
	s.Zero(sum.FamilyPlanning)
	s.Zero(sum.Users)

	s.Require().Len(sum.HouseholdsByMonth, 12)
	s.Equal(MonthCount{Month: "Jan", Count: 2}, sum.HouseholdsByMonth[0])
	s.Equal(MonthCount{Month: "Feb", Count: 0}, sum.HouseholdsByMonth[1])
	s.Equal(MonthCount{Month: "Mar", Count: 1}, sum.HouseholdsByMonth[2])
	s.Equal("Dec", sum.HouseholdsByMonth[11].Month)
}

func (s *AnalyticsSuite) TestSummaryIsCached() {
	s.addHousehold(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))

	first, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Zero(s.cache.hits)

	// A write the service is not told about stays invisible until invalidation.
	s.addHousehold(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	second, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Equal(1, s.cache.hits)
	s.Equal(first, second)

	s.svc.Observe(s.ctx, models.KindHousehold, schema.OpCreate, "ok")
	third, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.EqualValues(2, third.Households)
}

func (s *AnalyticsSuite) TestObserveOnlyInvalidatesSuccessfulWrites() {
	s.svc.Observe(s.ctx, models.KindPregnant, schema.OpCreate, "validation")
	s.svc.Observe(s.ctx, models.KindPregnant, schema.OpGet, "ok")
	s.svc.Observe(s.ctx, models.KindPregnant, schema.OpList, "ok")
	s.Zero(s.cache.invalidated)

	s.svc.Observe(s.ctx, models.KindPregnant, schema.OpUpdate, "ok")
	s.svc.Observe(s.ctx, models.KindPregnant, schema.OpDelete, "ok")
	s.Equal(2, s.cache.invalidated)
}

// countHook runs hook once, in the middle of a Count.
type countHook struct {
	*memory.Collection[*models.Household]
	hook func()
}

func (c *countHook) Count(ctx context.Context) (int64, error) {
	if c.hook != nil {
		hook := c.hook
		c.hook = nil
		hook()
	}
	return c.Collection.Count(ctx)
}

func (s *AnalyticsSuite) TestWriteDuringSummaryIsNotCached() {
	s.addHousehold(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))

	hooked := &countHook{Collection: s.households}
	hooked.hook = func() {
		s.addHousehold(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
		s.svc.Observe(s.ctx, models.KindHousehold, schema.OpCreate, "ok")
	}
	s.cols.Households = hooked
	s.svc = NewService(s.cols, s.cache, time.UTC, nil)

	_, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Equal(1, s.cache.invalidated)
	s.Empty(s.cache.entries, "a summary computed across a write must not be cached")

	sum, err := s.svc.Summary(s.ctx, 2024)
	s.Require().NoError(err)
	s.EqualValues(2, sum.Households)
	s.Contains(s.cache.entries, "2024")
}

func (s *AnalyticsSuite) TestStoreFailure() {
	s.pregnant.Err = errors.New("connection refused")
	_, err := s.svc.Summary(s.ctx, 2024)
	s.ErrorIs(err, store.ErrUnavailable)
	s.Empty(s.cache.entries)
}

func TestNilCacheAndZone(t *testing.T) {
	svc := NewService(memory.Collections(), nil, nil, nil)
	sum, err := svc.Summary(context.Background(), 2025)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Households != 0 || len(sum.HouseholdsByMonth) != 12 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
