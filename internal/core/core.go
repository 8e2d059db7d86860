package core

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/3cpo-dev/towerctl/internal/airline"
	"github.com/3cpo-dev/towerctl/internal/tower"
	"github.com/3cpo-dev/towerctl/pkg/api"
)

// DefaultRequestedRoute is what every sample flight asks for.
const DefaultRequestedRoute = "34:43E;41:41W"

// DefaultRoster is the sample fleet around the tower.
func DefaultRoster() []api.FlightSpec {
	return []api.FlightSpec{
		{Number: "oh101", From: "London", Kind: api.KindA},
		{Number: "oh132", From: "Roma", Kind: api.KindA},
		{Number: "zy99", From: "Berlin", Kind: api.KindB},
	}
}

// DefaultRequests is the sample request script, issued in order.
func DefaultRequests() []api.RouteRequest {
	return []api.RouteRequest{
		{Flight: "zy99", Route: DefaultRequestedRoute},
		{Flight: "oh101", Route: DefaultRequestedRoute},
	}
}

// Session wires a roster of flights to one tower.
type Session struct {
	tower   *tower.Tower
	out     io.Writer
	flights map[string]*airline.Flight
}

// NewSession creates a session whose flights print to out.
func NewSession(t *tower.Tower, out io.Writer) *Session {
	return &Session{tower: t, out: out, flights: map[string]*airline.Flight{}}
}

func (s *Session) Tower() *tower.Tower { return s.tower }

// Bootstrap creates and registers every flight in roster.
func (s *Session) Bootstrap(roster []api.FlightSpec) error {
	for _, spec := range roster {
		f, err := airline.New(spec, s.out)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		s.tower.Register(f)
		s.flights[spec.Number] = f
	}
	log.Debug().Str("tower", s.tower.Name()).Int("flights", len(roster)).Msg("Roster registered")
	return nil
}

// Run issues each request in turn and stops at the first failure. A request
// for a flight outside the roster goes straight to the tower, which rejects it.
func (s *Session) Run(ctx context.Context, reqs []api.RouteRequest) error {
	for _, req := range reqs {
		var err error
		if f, ok := s.flights[req.Flight]; ok {
			err = f.RequestNewWay(ctx, req.Route)
		} else {
			err = s.tower.SuggestWay(ctx, req.Flight, req.Route)
		}
		if err != nil {
			return fmt.Errorf("request route for %s: %w", req.Flight, err)
		}
	}
	return nil
}
