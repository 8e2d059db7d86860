package tower

import (
	"context"
	"math/rand/v2"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/3cpo-dev/towerctl/internal/airline"
	"github.com/3cpo-dev/towerctl/internal/route"
	"github.com/3cpo-dev/towerctl/internal/telemetry"
	"github.com/3cpo-dev/towerctl/pkg/api"
)

// SuggestDelay is how long the tower works on a route before answering.
const SuggestDelay = 250 * time.Millisecond

// Participant is a flight the tower can coordinate.
type Participant interface {
	Number() string
	Kind() api.Kind
	Attach(t airline.Tower)
	GetWay(message string)
}

// Journal records every delivered route.
type Journal interface {
	Record(ctx context.Context, d api.Delivery) error
}

// Tower mediates between flights. Flights only hold a reference to the tower
// and the tower is the only place that knows about every flight.
type Tower struct {
	name string

	mu      sync.Mutex
	flights map[string]Participant
	rnd     *rand.Rand

	clock     clock.Clock
	journal   Journal
	collector *telemetry.Collector
}

type Option func(*Tower)

// WithClock replaces the wall clock used for the suggestion delay and timestamps.
func WithClock(c clock.Clock) Option { return func(t *Tower) { t.clock = c } }

// WithRand sets the source routes are drawn from.
func WithRand(r *rand.Rand) Option { return func(t *Tower) { t.rnd = r } }

func WithJournal(j Journal) Option { return func(t *Tower) { t.journal = j } }

func WithCollector(c *telemetry.Collector) Option { return func(t *Tower) { t.collector = c } }

// New creates an empty tower.
func New(name string, opts ...Option) *Tower {
	t := &Tower{
		name:    name,
		flights: map[string]Participant{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = clock.New()
	}
	if t.rnd == nil {
		t.rnd = route.NewRand(0)
	}
	if t.collector == nil {
		t.collector = telemetry.GetGlobal()
	}
	return t
}

func (t *Tower) Name() string { return t.name }

// Register adds p under its flight number unless p itself is already
// registered. A different participant with the same number is replaced.
// The back-reference is set either way.
func (t *Tower) Register(p Participant) {
	t.mu.Lock()
	present := lo.ContainsBy(lo.Values(t.flights), func(v Participant) bool { return sameParticipant(v, p) })
	if !present {
		t.flights[p.Number()] = p
	}
	n := len(t.flights)
	t.mu.Unlock()

	p.Attach(t)

	log.Debug().
		Str("tower", t.name).
		Str("flight", p.Number()).
		Bool("duplicate", present).
		Int("registered", n).
		Msg("Registered flight")
	t.collector.Gauge("tower_registered_flights", float64(n), map[string]string{"tower": t.name})
}

// sameParticipant reports whether a and b are the same participant. Values
// that cannot be compared are never the same, so they are always stored.
func sameParticipant(a, b Participant) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// Lookup returns the participant registered under number.
func (t *Tower) Lookup(number string) (Participant, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.flights[number]
	if !ok {
		return nil, &UnknownFlightError{Flight: number}
	}
	return p, nil
}

// Flights returns the registered participants ordered by flight number.
func (t *Tower) Flights() []Participant {
	t.mu.Lock()
	out := lo.Values(t.flights)
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

func (t *Tower) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.flights)
}

// SuggestWay works out a new route for flight and hands it back through the
// flight's GetWay. The requested route is journaled but does not affect the
// answer.
func (t *Tower) SuggestWay(ctx context.Context, flight, requested string) error {
	labels := map[string]string{"tower": t.name, "flight": flight}
	p, err := t.Lookup(flight)
	if err != nil {
		t.collector.Counter("tower_unknown_flight", 1, labels)
		return err
	}

	start := t.clock.Now()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.clock.After(SuggestDelay):
	}

	t.mu.Lock()
	suggested := route.Generate(t.rnd).String()
	t.mu.Unlock()

	p.GetWay(suggested)

	t.collector.Counter("tower_suggestions", 1, labels)
	t.collector.Timer("tower_suggest_duration", t.clock.Since(start), labels)
	log.Debug().
		Str("tower", t.name).
		Str("flight", flight).
		Str("requested", requested).
		Str("suggested", suggested).
		Msg("Suggested route")

	if t.journal == nil {
		return nil
	}
	d := api.Delivery{
		ID:        uuid.NewString(),
		Flight:    flight,
		Kind:      p.Kind(),
		Requested: requested,
		Suggested: suggested,
		At:        t.clock.Now(),
	}
	if err := t.journal.Record(ctx, d); err != nil {
		t.collector.Counter("tower_journal_errors", 1, labels)
		log.Warn().Err(err).Str("flight", flight).Msg("Failed to journal delivery")
	}
	return nil
}
