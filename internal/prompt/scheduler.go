package prompt

// #region imports
import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/ring"
)

// #endregion imports

// #region category

// Category names a prompt family; each category runs its own
// idle → scheduled → delivered state machine.
type Category string

const (
	CategoryUnmaskingSupport Category = "unmasking_support"
	CategoryEnergyWarning    Category = "energy_warning"
	CategoryEnergyCritical   Category = "energy_critical"
	CategorySafeSpace        Category = "safe_space"
	CategoryCheckIn          Category = "check_in"
)

// #endregion category

// #region reject-reason

// RejectReason explains why a schedule request was refused. Rejection is a
// normal outcome, not an error.
type RejectReason string

const (
	// ReasonNone marks an accepted request.
	ReasonNone              RejectReason = ""
	ReasonCapReached        RejectReason = "cap_reached"
	ReasonCooldownActive    RejectReason = "cooldown_active"
	ReasonDuplicateCategory RejectReason = "duplicate_category"
)

// #endregion reject-reason

// #region record

// Record tracks one prompt through its lifecycle. Bounded history of
// these records enforces the rate limits.
type Record struct {
	ID          string
	Category    Category
	Text        string
	Context     map[string]string
	ScheduledAt time.Time
	DeliverAt   time.Time
	Delivered   bool
	DeliveredAt time.Time
}

// #endregion record

// #region config

// Config holds the scheduler rate limits.
type Config struct {
	DailyCap         int           // max deliveries per calendar day
	MinSpacing       time.Duration // min gap between any two deliveries
	CategoryCooldown time.Duration // min gap between deliveries of one category
	HistorySize      int           // bounded delivered-record history
}

// DefaultConfig returns the standard scheduler limits.
func DefaultConfig() Config {
	return Config{
		DailyCap:         6,
		MinSpacing:       30 * time.Minute,
		CategoryCooldown: 2 * time.Hour,
		HistorySize:      20,
	}
}

// #endregion config

// #region scheduler

// Scheduler delivers supportive prompts under rate limits. All methods
// run on the engine's single logical timeline; firing happens from ticks
// via clock comparison, with an authoritative re-check at fire time.
type Scheduler struct {
	config Config
	pool   *Pool
	rng    *rand.Rand
	log    zerolog.Logger

	pending        map[Category]*Record
	history        *ring.Buffer[Record]
	lastDelivered  time.Time
	haveDelivered  bool
	deliveredToday int
	day            int
	lastByCategory map[Category]time.Time
}

// NewScheduler creates a scheduler. pool and rng must be non-nil.
func NewScheduler(config Config, pool *Pool, rng *rand.Rand, log zerolog.Logger) *Scheduler {
	if config.HistorySize < 1 {
		config.HistorySize = DefaultConfig().HistorySize
	}
	return &Scheduler{
		config:         config,
		pool:           pool,
		rng:            rng,
		log:            log,
		pending:        make(map[Category]*Record),
		history:        ring.New[Record](config.HistorySize),
		lastByCategory: make(map[Category]time.Time),
	}
}

// SetConfig swaps caps and spacing. Pending prompts, delivery history
// and today's count carry over; a shrunk HistorySize takes effect on
// the next construction, not retroactively.
func (s *Scheduler) SetConfig(config Config) {
	if config.HistorySize < 1 {
		config.HistorySize = DefaultConfig().HistorySize
	}
	s.config = config
}

// #endregion scheduler

// #region schedule

// Schedule requests a prompt for the category after delay. Overlapping
// requests for a category collapse to the latest. Returns the pending
// record, or nil with the rejection reason.
func (s *Scheduler) Schedule(cat Category, ctx map[string]string, delay time.Duration, now time.Time) (*Record, RejectReason) {
	s.rollDay(now)

	// Collapse: a pending prompt for the same category adopts the new
	// request instead of being duplicated or rejected.
	if existing, ok := s.pending[cat]; ok {
		existing.ScheduledAt = now
		existing.DeliverAt = now.Add(delay)
		existing.Context = ctx
		existing.Text = s.pool.Pick(cat, ctx, s.rng)
		s.log.Debug().Str("category", string(cat)).Msg("collapsed overlapping schedule request")
		return existing, ReasonNone
	}

	if s.deliveredToday >= s.config.DailyCap {
		return nil, ReasonCapReached
	}
	if s.haveDelivered && now.Sub(s.lastDelivered) < s.config.MinSpacing {
		return nil, ReasonCooldownActive
	}
	if last, ok := s.lastByCategory[cat]; ok && now.Sub(last) < s.config.CategoryCooldown {
		return nil, ReasonDuplicateCategory
	}

	rec := &Record{
		ID:          uuid.New().String(),
		Category:    cat,
		Text:        s.pool.Pick(cat, ctx, s.rng),
		Context:     ctx,
		ScheduledAt: now,
		DeliverAt:   now.Add(delay),
	}
	s.pending[cat] = rec
	return rec, ReasonNone
}

// #endregion schedule

// #region due

// Due fires all pending prompts whose delivery time has arrived. Rate
// limits are re-checked here authoritatively; a prompt that no longer
// fits is dropped, not delivered late.
func (s *Scheduler) Due(now time.Time) []Record {
	s.rollDay(now)

	var ready []*Record
	for _, rec := range s.pending {
		if !rec.DeliverAt.After(now) {
			ready = append(ready, rec)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].DeliverAt.Before(ready[j].DeliverAt) })

	var delivered []Record
	for _, rec := range ready {
		delete(s.pending, rec.Category)

		if s.deliveredToday >= s.config.DailyCap {
			s.log.Debug().Str("category", string(rec.Category)).Msg("dropped at fire time: cap reached")
			continue
		}
		if s.haveDelivered && now.Sub(s.lastDelivered) < s.config.MinSpacing {
			s.log.Debug().Str("category", string(rec.Category)).Msg("dropped at fire time: spacing")
			continue
		}

		rec.Delivered = true
		rec.DeliveredAt = now
		s.deliveredToday++
		s.lastDelivered = now
		s.haveDelivered = true
		s.lastByCategory[rec.Category] = now
		s.history.Push(*rec)
		delivered = append(delivered, *rec)
	}
	return delivered
}

// #endregion due

// #region accessors

// Pending returns the pending record for a category, if any.
func (s *Scheduler) Pending(cat Category) (Record, bool) {
	rec, ok := s.pending[cat]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// History returns up to limit delivered records, oldest first.
func (s *Scheduler) History(limit int) []Record {
	return s.history.Last(limit)
}

// DeliveredToday returns the count toward the daily cap.
func (s *Scheduler) DeliveredToday() int {
	return s.deliveredToday
}

// CancelAll drops every pending prompt without delivering.
func (s *Scheduler) CancelAll() {
	s.pending = make(map[Category]*Record)
}

// #endregion accessors

// #region day-roll

func (s *Scheduler) rollDay(now time.Time) {
	key := now.Year()*1000 + now.YearDay()
	if key != s.day {
		s.day = key
		s.deliveredToday = 0
	}
}

// #endregion day-roll
