package plan

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/hhgyloh/untisplan-go/internal/errors"
	"github.com/hhgyloh/untisplan-go/internal/logger"
	"github.com/hhgyloh/untisplan-go/internal/metrics"
	"github.com/hhgyloh/untisplan-go/internal/untis"
)

// Fetcher is the transport collaborator: one raw payload per day.
// Implemented by *untis.Client.
type Fetcher interface {
	GetSubstitution(ctx context.Context, dateCode int) (*untis.Payload, error)
}

// Service fetches and normalizes day plans. Normalized plans are cached for
// a short TTL; concurrent requests for the same day coalesce into a single
// fetch. The cache sits above the fetch path and never masks a fetch error.
type Service struct {
	fetcher Fetcher
	log     *logger.Logger
	metrics *metrics.Metrics
	cache   *gocache.Cache
	group   singleflight.Group
}

// NewService creates a plan service. cacheTTL bounds how long a normalized
// plan is served without re-fetching; zero disables caching.
func NewService(fetcher Fetcher, log *logger.Logger, m *metrics.Metrics, cacheTTL time.Duration) *Service {
	var cache *gocache.Cache
	if cacheTTL > 0 {
		cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return &Service{
		fetcher: fetcher,
		log:     log.WithModule("plan"),
		metrics: m,
		cache:   cache,
	}
}

// GetPlan fetches and normalizes the plan for one day.
//
// The monitor may answer with the nearest available day instead of an exact
// match; a plan for a different date than requested (or no payload at all)
// is reported as a PlanNotFound error.
func (s *Service) GetPlan(ctx context.Context, date time.Time) (*DayPlan, error) {
	day := DayStart(date)
	key := strconv.Itoa(EncodeDate(day))

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.CacheHitsTotal.Inc()
			return cached.(*DayPlan), nil
		}
		s.metrics.CacheMissesTotal.Inc()
	}

	result, err, shared := s.group.Do(key, func() (any, error) {
		payload, err := s.fetchPayload(ctx, EncodeDate(day))
		if err != nil {
			return nil, err
		}
		if payload == nil {
			return nil, errors.NewPlanNotFoundError(day, time.Time{})
		}

		p, err := s.parsePayload(payload)
		if err != nil {
			return nil, err
		}
		if !p.Date.Equal(day) {
			return nil, errors.NewPlanNotFoundError(day, p.Date)
		}

		if s.cache != nil {
			s.cache.SetDefault(key, p)
		}
		return p, nil
	})
	if shared {
		s.metrics.SingleflightDedupTotal.Inc()
	}
	if err != nil {
		return nil, err
	}
	return result.(*DayPlan), nil
}

// pageState is the pagination cursor: the wire code to request next, how
// many plans are still wanted, and what has been collected so far.
type pageState struct {
	code      int
	remaining int
	collected []*DayPlan
}

// GetPlans walks up to count days forward from start, following each
// payload's next-date hint. Fetches are strictly sequential: a day's hint is
// only known once its payload arrived.
//
// A short result is valid (the monitor ran out of days). On error the plans
// collected so far are returned alongside the error, so callers can
// distinguish a partial result from a normally exhausted one.
func (s *Service) GetPlans(ctx context.Context, start time.Time, count int) ([]*DayPlan, error) {
	st := &pageState{
		code:      EncodeDate(DayStart(start)),
		remaining: count,
		collected: []*DayPlan{},
	}

	for st.remaining > 0 {
		payload, err := s.fetchPayload(ctx, st.code)
		if err != nil {
			return st.collected, err
		}
		if payload == nil {
			break
		}

		p, err := s.parsePayload(payload)
		if err != nil {
			return st.collected, err
		}
		st.collected = append(st.collected, p)
		st.remaining--

		next, ok := payload.NextDateCode()
		if !ok {
			break
		}
		st.code = next
	}

	return st.collected, nil
}

// fetchPayload performs one transport call with metrics around it.
func (s *Service) fetchPayload(ctx context.Context, dateCode int) (*untis.Payload, error) {
	start := time.Now()
	payload, err := s.fetcher.GetSubstitution(ctx, dateCode)
	s.metrics.UntisDurationSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil && payload == nil:
		s.metrics.UntisRequestsTotal.WithLabelValues("empty").Inc()
		s.log.WithField("date_code", dateCode).Debug("no payload for date")
	case err == nil:
		s.metrics.UntisRequestsTotal.WithLabelValues("success").Inc()
	default:
		s.metrics.UntisRequestsTotal.WithLabelValues(requestStatus(err)).Inc()
		s.log.WithField("date_code", dateCode).WithError(err).Warn("untis fetch failed")
	}
	return payload, err
}

// parsePayload normalizes a payload with metrics around it.
func (s *Service) parsePayload(payload *untis.Payload) (*DayPlan, error) {
	p, err := ParsePayload(payload)
	if err != nil {
		var parseErr *errors.ParsingError
		field := "payload"
		if stderrors.As(err, &parseErr) {
			field = parseErr.Field
		}
		s.metrics.ParseFailuresTotal.WithLabelValues(field).Inc()
		return nil, err
	}
	if collapsed := len(payload.Rows) - len(p.Entries); collapsed > 0 {
		s.metrics.EntriesDeduped.Add(float64(collapsed))
	}
	return p, nil
}

func requestStatus(err error) string {
	var remote *errors.RemoteError
	if stderrors.As(err, &remote) {
		return "remote_error"
	}
	return "communication_error"
}
