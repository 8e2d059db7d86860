package airline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/3cpo-dev/towerctl/pkg/api"
)

// ErrDetached is returned when a flight asks for a route before any tower registered it.
var ErrDetached = errors.New("flight not attached to a tower")

// Tower is what a flight needs from its coordinator.
type Tower interface {
	SuggestWay(ctx context.Context, flight, requested string) error
}

// Flight is one airline participant. Flights never talk to each other; every
// request goes through the attached Tower, which answers through GetWay.
type Flight struct {
	number string
	from   string
	kind   api.Kind
	out    io.Writer

	mu    sync.RWMutex
	tower Tower
}

// New creates a flight that renders routes to out.
func New(spec api.FlightSpec, out io.Writer) (*Flight, error) {
	if spec.Number == "" {
		return nil, fmt.Errorf("flight number is required")
	}
	if spec.Kind.Label() == "" {
		return nil, fmt.Errorf("flight %s: unknown kind %q", spec.Number, spec.Kind)
	}
	return &Flight{number: spec.Number, from: spec.From, kind: spec.Kind, out: out}, nil
}

func (f *Flight) Number() string { return f.number }

func (f *Flight) From() string { return f.from }

func (f *Flight) Kind() api.Kind { return f.kind }

// Attach sets the tower back-reference. Called by the tower on registration.
func (f *Flight) Attach(t Tower) {
	f.mu.Lock()
	f.tower = t
	f.mu.Unlock()
}

// Tower returns the tower this flight is attached to, or nil.
func (f *Flight) Tower() Tower {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tower
}

// RequestNewWay asks the attached tower for a new route.
func (f *Flight) RequestNewWay(ctx context.Context, requested string) error {
	t := f.Tower()
	if t == nil {
		return fmt.Errorf("flight %s: %w", f.number, ErrDetached)
	}
	return t.SuggestWay(ctx, f.number, requested)
}

// GetWay receives a route from the tower and prints it under the variant header.
func (f *Flight) GetWay(message string) {
	fmt.Fprintf(f.out, "%s, Flight %s : \n", f.kind.Label(), f.number)
	Render(f.out, message)
}

// Render is the shared rendering every variant ends with.
func Render(w io.Writer, message string) {
	fmt.Fprintf(w, "%s route\n", message)
}
