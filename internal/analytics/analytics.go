// Package analytics computes the dashboard summary: record counts per kind
// and the monthly series of household registrations.
package analytics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
	"barangay-health-server/internal/store"
)

// MonthCount is one point of a monthly series.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Summary is the dashboard payload.
type Summary struct {
	Year              int          `json:"year"`
	Households        int64        `json:"households"`
	Pregnant          int64        `json:"pregnant"`
	SeniorCitizens    int64        `json:"seniorCitizens"`
	FamilyPlanning    int64        `json:"familyPlanning"`
	Users             int64        `json:"users"`
	HouseholdsByMonth []MonthCount `json:"householdsByMonth"`
}

// Service builds summaries from the record collections.
type Service struct {
	cols  store.Collections
	cache Cache
	loc   *time.Location
	log   *zap.Logger

	// gen counts invalidations. A summary is only cached when no write was
	// observed while it was being computed; mu keeps that check and the
	// cache write together.
	mu  sync.Mutex
	gen uint64
}

// NewService returns a summary service. A nil cache disables caching; a nil
// loc buckets months in UTC.
func NewService(cols store.Collections, cache Cache, loc *time.Location, log *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cols: cols, cache: cache, loc: loc, log: log}
}

// Summary returns the counts for year, from the cache when possible.
func (s *Service) Summary(ctx context.Context, year int) (*Summary, error) {
	key := strconv.Itoa(year)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}
	s.mu.Lock()
	started := s.gen
	s.mu.Unlock()

	sum := &Summary{Year: year}
	var byMonth [12]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { sum.Households, err = s.cols.Households.Count(gctx); return })
	g.Go(func() (err error) { sum.Pregnant, err = s.cols.Pregnant.Count(gctx); return })
	g.Go(func() (err error) { sum.SeniorCitizens, err = s.cols.SeniorCitizens.Count(gctx); return })
	g.Go(func() (err error) { sum.FamilyPlanning, err = s.cols.FamilyPlanning.Count(gctx); return })
	g.Go(func() (err error) { sum.Users, err = s.cols.Users.Count(gctx); return })
	g.Go(func() (err error) {
		byMonth, err = s.cols.Households.CountByMonth(gctx, year, s.loc)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum.HouseholdsByMonth = make([]MonthCount, 0, len(byMonth))
	for i, n := range byMonth {
		sum.HouseholdsByMonth = append(sum.HouseholdsByMonth, MonthCount{
			Month: time.Month(i + 1).String()[:3],
			Count: n,
		})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == started {
		s.cache.Set(ctx, key, sum)
	}
	return sum, nil
}

// Observe drops cached summaries after every successful write so the next
// dashboard load recounts.
func (s *Service) Observe(ctx context.Context, kind models.Kind, op schema.Op, outcome string) {
	if outcome != "ok" {
		return
	}
	switch op {
	case schema.OpCreate, schema.OpUpdate, schema.OpDelete:
		s.log.Debug("invalidating analytics cache", zap.String("kind", string(kind)), zap.String("op", string(op)))
		s.mu.Lock()
		defer s.mu.Unlock()
		s.gen++
		s.cache.Invalidate(ctx)
	}
}
