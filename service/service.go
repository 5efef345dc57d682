package service

import (
	"context"

	"github.com/findrandomevents/eventfinder/geojson"
	"github.com/findrandomevents/eventfinder/serpapi"
	"github.com/findrandomevents/eventfinder/session"
)

// DefaultMinMoveMeters is how far a device has to move before a nearby
// search resolves its locality again.
const DefaultMinMoveMeters = 5.0

// Service is a programmatic API to eventfinder. It runs searches against the
// search provider and keeps their results in client sessions.
type Service struct {
	Searcher Searcher
	Resolver Resolver
	Sessions *session.Store

	// MinMoveMeters defaults to DefaultMinMoveMeters. A negative value
	// resolves the position of every nearby search.
	MinMoveMeters float64
}

// Searcher mocks out access to the event search provider.
type Searcher interface {
	Search(ctx context.Context, location string) (serpapi.Response, error)
}

// Resolver turns device coordinates into a locality name.
type Resolver interface {
	Locality(ctx context.Context, p geojson.Point) (string, error)
}

func (s *Service) minMove() float64 {
	if s.MinMoveMeters != 0 {
		return s.MinMoveMeters
	}
	return DefaultMinMoveMeters
}
