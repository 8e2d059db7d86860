package api

import "time"

// v0 contains public types for early SDK usage.

// Kind selects the flight variant. Variants differ only in the label they
// print ahead of a suggested route.
type Kind string

const (
	KindA Kind = "A"
	KindB Kind = "B"
)

// Label is the literal text printed before "Flight <number>".
func (k Kind) Label() string {
	switch k {
	case KindA:
		return "1"
	case KindB:
		return "2"
	}
	return ""
}

type FlightSpec struct {
	Number string `json:"number" yaml:"number"`
	From   string `json:"from" yaml:"from"`
	Kind   Kind   `json:"kind" yaml:"kind"`
}

type RouteRequest struct {
	Flight string `json:"flight" yaml:"flight"`
	// Route is what the flight asked for. The tower records it but never uses it.
	Route string `json:"route" yaml:"route"`
}

// Delivery is one route handed from the tower to a flight.
type Delivery struct {
	ID        string    `json:"id" yaml:"id"`
	Flight    string    `json:"flight" yaml:"flight"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Requested string    `json:"requested" yaml:"requested"`
	Suggested string    `json:"suggested" yaml:"suggested"`
	At        time.Time `json:"at" yaml:"at"`
}
