// internal/mentor/store.go
package mentor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mentor-pricing-workers/internal/common/logger"
	"mentor-pricing-workers/internal/common/metrics"
	"mentor-pricing-workers/internal/pricing"

	"github.com/redis/go-redis/v9"
)

var (
	ErrMentorNotFound = errors.New("MENTOR_NOT_FOUND")
	ErrLookupFailed   = errors.New("MENTOR_PROFILE_LOOKUP_FAILED")
)

const cacheKeyPrefix = "mentor:profile:"

// DefaultCacheTTL applies when the store is built with a non-positive TTL.
const DefaultCacheTTL = 5 * time.Minute

const profileQuery = `SELECT work_experience, company, company_tier, college, college_tier, job_role, niche_skills, interview_experience, mentor_rating, rating_count FROM mentors WHERE id = $1`

// ProfileSource resolves the raw pricing attributes of a mentor.
type ProfileSource interface {
	Get(ctx context.Context, mentorID string) (pricing.Attributes, error)
}

// ProfileStore reads mentor profiles from Postgres through a Redis
// read-through cache. Only the raw profile is cached, never a computed price.
type ProfileStore struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewProfileStore builds a store. cache may be nil, in which case every lookup
// goes to Postgres.
func NewProfileStore(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *ProfileStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProfileStore{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "mentor-profile-store"}),
	}
}

func CacheKey(mentorID string) string {
	return cacheKeyPrefix + mentorID
}

func (s *ProfileStore) Get(ctx context.Context, mentorID string) (pricing.Attributes, error) {
	if attrs, ok := s.fromCache(ctx, mentorID); ok {
		return attrs, nil
	}

	attrs, err := s.fromDatabase(ctx, mentorID)
	if err != nil {
		return pricing.Attributes{}, err
	}

	s.store(ctx, mentorID, attrs)
	return attrs, nil
}

// Invalidate drops the cached profile so the next Get reads Postgres.
func (s *ProfileStore) Invalidate(ctx context.Context, mentorID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, CacheKey(mentorID)).Err(); err != nil {
		return fmt.Errorf("invalidate mentor profile %s: %w", mentorID, err)
	}
	return nil
}

func (s *ProfileStore) fromCache(ctx context.Context, mentorID string) (pricing.Attributes, bool) {
	if s.cache == nil {
		return pricing.Attributes{}, false
	}

	val, err := s.cache.Get(ctx, CacheKey(mentorID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.MentorProfileCache.WithLabelValues("miss").Inc()
		} else {
			metrics.MentorProfileCache.WithLabelValues("error").Inc()
			s.logger.Warn("profile cache read failed", map[string]interface{}{
				"mentorId": mentorID,
				"error":    err.Error(),
			})
		}
		return pricing.Attributes{}, false
	}

	var attrs pricing.Attributes
	if err := json.Unmarshal([]byte(val), &attrs); err != nil {
		s.logger.Warn("discarding malformed cached profile", map[string]interface{}{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
		metrics.MentorProfileCache.WithLabelValues("error").Inc()
		return pricing.Attributes{}, false
	}
	metrics.MentorProfileCache.WithLabelValues("hit").Inc()
	return attrs, true
}

func (s *ProfileStore) fromDatabase(ctx context.Context, mentorID string) (pricing.Attributes, error) {
	var (
		workExperience, company, companyTier, college, collegeTier sql.NullString
		currentRole, nicheSkills, interviewExperience              sql.NullString
		mentorRating, ratingCount                                  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, profileQuery, mentorID).Scan(
		&workExperience, &company, &companyTier, &college, &collegeTier,
		&currentRole, &nicheSkills, &interviewExperience, &mentorRating, &ratingCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Attributes{}, fmt.Errorf("%w: %s", ErrMentorNotFound, mentorID)
		}
		return pricing.Attributes{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	return pricing.Attributes{
		WorkExperience:      rawValue(workExperience),
		Company:             company.String,
		CompanyTier:         companyTier.String,
		College:             college.String,
		CollegeTier:         collegeTier.String,
		CurrentRole:         currentRole.String,
		NicheSkills:         nicheSkills.String,
		InterviewExperience: interviewExperience.String,
		MentorRating:        rawValue(mentorRating),
		RatingCount:         rawValue(ratingCount),
	}, nil
}

func (s *ProfileStore) store(ctx context.Context, mentorID string, attrs pricing.Attributes) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey(mentorID), data, s.ttl).Err(); err != nil {
		s.logger.Warn("profile cache write failed", map[string]interface{}{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
	}
}

// NULL numeric columns stay absent rather than becoming empty strings.
func rawValue(v sql.NullString) interface{} {
	if !v.Valid {
		return nil
	}
	return v.String
}
