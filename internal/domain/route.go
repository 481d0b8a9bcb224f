package domain

import "errors"

// Route construction errors.
var (
	ErrNoSegments = errors.New("route requires at least one segment")
	ErrNilSegment = errors.New("route segment must not be nil")
)

// Route is an ordered, non-empty sequence of segments. The order is the
// traversal order and is fixed after construction; segment contents stay
// mutable through the segment's own methods.
type Route struct {
	name     string
	segments []*RouteSegment
}

// NewRoute creates a route over the given segments. The slice is copied,
// so later changes to the caller's slice do not reorder the route.
func NewRoute(name string, segments []*RouteSegment) (*Route, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	for _, s := range segments {
		if s == nil {
			return nil, ErrNilSegment
		}
	}

	owned := make([]*RouteSegment, len(segments))
	copy(owned, segments)

	return &Route{name: name, segments: owned}, nil
}

// Name returns the route name.
func (r *Route) Name() string { return r.name }

// Segments returns the segments in traversal order. The returned slice is
// a copy; the segments themselves are shared and mutable.
func (r *Route) Segments() []*RouteSegment {
	out := make([]*RouteSegment, len(r.segments))
	copy(out, r.segments)
	return out
}

// SegmentCount returns the number of segments.
func (r *Route) SegmentCount() int { return len(r.segments) }

// TotalDistanceKm returns the sum of all segment distances.
// Always greater than zero per the construction invariant.
func (r *Route) TotalDistanceKm() float64 {
	var total float64
	for _, s := range r.segments {
		total += s.distanceKm
	}
	return total
}

// AverageWearLevel returns the arithmetic mean of segment wear levels.
func (r *Route) AverageWearLevel() float64 {
	var total float64
	for _, s := range r.segments {
		total += s.wearLevel
	}
	return total / float64(len(r.segments))
}

// Snapshot returns a persistable copy of the route state.
func (r *Route) Snapshot() RouteRecord {
	segs := make([]SegmentRecord, len(r.segments))
	for i, s := range r.segments {
		segs[i] = s.Snapshot()
	}
	return RouteRecord{Name: r.name, Segments: segs}
}

// NewRouteFromRecord rebuilds a route from a persisted snapshot.
func NewRouteFromRecord(rec RouteRecord) (*Route, error) {
	segments := make([]*RouteSegment, len(rec.Segments))
	for i, sr := range rec.Segments {
		seg, err := NewRouteSegment(sr.Name, sr.DistanceKm, sr.Roughness, sr.WearLevel)
		if err != nil {
			return nil, err
		}
		segments[i] = seg
	}
	return NewRoute(rec.Name, segments)
}
