package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"book-review/internal/data/repository"
	"book-review/internal/dto/response"
	"book-review/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// RatingService serves per-book rating summaries.
type RatingService interface {
	Summaries(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]response.RatingSummary, error)
	Summary(ctx context.Context, bookID uuid.UUID) (response.RatingSummary, error)
	Invalidate(bookID uuid.UUID)
	Stop()
}

type ratingService struct {
	reviews repository.ReviewRepository
	cache   *ttlcache.Cache[uuid.UUID, response.RatingSummary]
	log     *zap.Logger

	// generations counts invalidations per book. A summary computed while the
	// generation moved is returned but not cached.
	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

// NewRatingService caches summaries for ttl, counted from when they were computed.
// A non-positive ttl disables caching.
func NewRatingService(reviews repository.ReviewRepository, ttl time.Duration, log *zap.Logger) RatingService {
	s := &ratingService{
		reviews: reviews,
		log:     log.With(zap.String("service", "rating")),
	}

	if ttl > 0 {
		s.cache = ttlcache.New(
			ttlcache.WithTTL[uuid.UUID, response.RatingSummary](ttl),
			ttlcache.WithDisableTouchOnHit[uuid.UUID, response.RatingSummary](),
		)
		s.generations = make(map[uuid.UUID]uint64)
		go s.cache.Start()
	}

	return s
}

// Summaries returns a summary for every requested id. Ids without reviews map to the zero summary.
func (s *ratingService) Summaries(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]response.RatingSummary, error) {
	out := make(map[uuid.UUID]response.RatingSummary, len(bookIDs))

	missing := make([]uuid.UUID, 0, len(bookIDs))
	for _, id := range bookIDs {
		if s.cache != nil {
			if item := s.cache.Get(id); item != nil {
				metrics.RatingCacheLookups.WithLabelValues("hit").Inc()
				out[id] = item.Value()
				continue
			}
			metrics.RatingCacheLookups.WithLabelValues("miss").Inc()
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return out, nil
	}

	seen := s.snapshot(missing)

	stats, err := s.reviews.StatsByBookIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, id := range missing {
		out[id] = response.RatingSummary{}
	}
	for _, st := range stats {
		out[st.BookID] = response.RatingSummary{
			AverageRating: RoundRating(st.Average),
			TotalReviews:  st.ReviewCount,
		}
	}

	s.store(out, seen)

	return out, nil
}

func (s *ratingService) snapshot(ids []uuid.UUID) map[uuid.UUID]uint64 {
	if s.cache == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uuid.UUID]uint64, len(ids))
	for _, id := range ids {
		seen[id] = s.generations[id]
	}
	return seen
}

// store caches the summaries whose book was not invalidated since seen was taken.
func (s *ratingService) store(summaries map[uuid.UUID]response.RatingSummary, seen map[uuid.UUID]uint64) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, gen := range seen {
		if s.generations[id] != gen {
			s.log.Debug("Discarding summary computed across a write", zap.String("book_id", id.String()))
			continue
		}
		s.cache.Set(id, summaries[id], ttlcache.DefaultTTL)
	}
}

func (s *ratingService) Summary(ctx context.Context, bookID uuid.UUID) (response.RatingSummary, error) {
	all, err := s.Summaries(ctx, []uuid.UUID{bookID})
	if err != nil {
		return response.RatingSummary{}, err
	}
	return all[bookID], nil
}

// Invalidate drops the cached summary so the next read recomputes it.
func (s *ratingService) Invalidate(bookID uuid.UUID) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	s.generations[bookID]++
	s.cache.Delete(bookID)
	s.mu.Unlock()

	s.log.Debug("Rating summary invalidated", zap.String("book_id", bookID.String()))
}

func (s *ratingService) Stop() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// RoundRating rounds a mean rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
