package cluster

import (
	"fmt"
	"math"

	"lingua-globe-service/internal/model"
)

// Cluster is an aggregate over the markers that share a grid cell.
// Clusters are rebuilt on every call and never reused.
type Cluster struct {
	Lat            float64
	Lng            float64
	Count          int
	Markers        []Marker
	DominantStatus model.Status
	DominantFamily string
	IsSingle       bool
}

type cellKey struct {
	lat, lng float64
}

// ClusterMarkers groups markers into square cells of gridSize degrees.
//
// A gridSize of 0 disables grouping and yields one cluster per marker.
// Clusters come back in the order their cell was first seen, and the
// members of each cluster keep their input order.
func ClusterMarkers(markers []Marker, gridSize float64) ([]Cluster, error) {
	if math.IsNaN(gridSize) || math.IsInf(gridSize, 0) || gridSize < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGridSize, gridSize)
	}
	for _, m := range markers {
		if err := m.validate(); err != nil {
			return nil, err
		}
	}
	if gridSize == 0 {
		return Singles(markers), nil
	}

	index := make(map[cellKey]int)
	groups := make([][]Marker, 0)
	for _, m := range markers {
		key := cellOf(m, gridSize)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}

	clusters := make([]Cluster, len(groups))
	for i, group := range groups {
		clusters[i] = aggregate(group)
	}
	return clusters, nil
}

// Singles wraps every marker in its own single-member cluster.
func Singles(markers []Marker) []Cluster {
	clusters := make([]Cluster, len(markers))
	for i, m := range markers {
		clusters[i] = Cluster{
			Lat:            m.Lat,
			Lng:            m.Lng,
			Count:          1,
			Markers:        []Marker{m},
			DominantStatus: m.status(),
			DominantFamily: m.family(),
			IsSingle:       true,
		}
	}
	return clusters
}

// cellOf snaps a marker to the low corner of its grid cell.
func cellOf(m Marker, gridSize float64) cellKey {
	return cellKey{
		lat: math.Floor(m.Lat/gridSize) * gridSize,
		lng: math.Floor(m.Lng/gridSize) * gridSize,
	}
}

func aggregate(group []Marker) Cluster {
	var sumLat, sumLng float64
	statuses := newTally[model.Status]()
	families := newTally[string]()
	for _, m := range group {
		sumLat += m.Lat
		sumLng += m.Lng
		statuses.add(m.status())
		families.add(m.family())
	}
	n := float64(len(group))
	return Cluster{
		Lat:            sumLat / n,
		Lng:            sumLng / n,
		Count:          len(group),
		Markers:        group,
		DominantStatus: statuses.dominant(),
		DominantFamily: families.dominant(),
		IsSingle:       len(group) == 1,
	}
}

// StatusBreakdown counts members per status, in first-seen order.
func (c Cluster) StatusBreakdown() []StatusCount {
	t := newTally[model.Status]()
	for _, m := range c.Markers {
		t.add(m.status())
	}
	out := make([]StatusCount, len(t.order))
	for i, st := range t.order {
		out[i] = StatusCount{Status: st, Count: t.counts[st]}
	}
	return out
}

type StatusCount struct {
	Status model.Status
	Count  int
}

// tally counts values and remembers the order they were first seen in.
type tally[T comparable] struct {
	counts map[T]int
	order  []T
}

func newTally[T comparable]() *tally[T] {
	return &tally[T]{counts: make(map[T]int)}
}

func (t *tally[T]) add(v T) {
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

// dominant returns the most frequent value; ties go to the earliest seen.
func (t *tally[T]) dominant() T {
	var best T
	bestCount := 0
	for _, v := range t.order {
		if c := t.counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
