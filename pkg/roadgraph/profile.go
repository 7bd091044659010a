package roadgraph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FallbackSpeed is the global default speed in km/h.
const FallbackSpeed = 40.0

// defaultSpeeds holds the per-road-class defaults in km/h.
var defaultSpeeds = map[string]float64{
	"motorway":       110,
	"motorway_link":  80,
	"trunk":          100,
	"trunk_link":     70,
	"primary":        90,
	"primary_link":   70,
	"secondary":      70,
	"secondary_link": 60,
	"tertiary":       60,
	"residential":    40,
	"living_street":  20,
	"service":        30,
	"unclassified":   40,
	"road":           40,
}

// Profile supplies default speeds when an edge has no usable speed limit.
type Profile interface {
	// DefaultSpeed returns the default speed for a road class.
	DefaultSpeed(class string) (float64, bool)
	// Fallback returns the speed used when the class is absent or unknown.
	Fallback() float64
}

// SpeedTable is a Profile backed by a fixed map.
type SpeedTable struct {
	speeds   map[string]float64
	fallback float64
}

// NewSpeedTable returns a table over a copy of speeds.
func NewSpeedTable(speeds map[string]float64, fallback float64) *SpeedTable {
	return &SpeedTable{speeds: maps.Clone(speeds), fallback: fallback}
}

// DefaultProfile returns the built-in road-class table with a 40 km/h fallback.
func DefaultProfile() *SpeedTable {
	return NewSpeedTable(defaultSpeeds, FallbackSpeed)
}

// DefaultSpeed implements Profile.
func (t *SpeedTable) DefaultSpeed(class string) (float64, bool) {
	s, ok := t.speeds[class]
	return s, ok
}

// Fallback implements Profile.
func (t *SpeedTable) Fallback() float64 { return t.fallback }

// Classes returns the known road classes in sorted order.
func (t *SpeedTable) Classes() []string {
	return slices.Sorted(maps.Keys(t.speeds))
}

// Speeds returns a copy of the class table.
func (t *SpeedTable) Speeds() map[string]float64 {
	return maps.Clone(t.speeds)
}

// Fingerprint returns a stable textual form of the table, suitable for
// cache keys.
func (t *SpeedTable) Fingerprint() string {
	var b strings.Builder
	for _, c := range t.Classes() {
		fmt.Fprintf(&b, "%s=%g;", c, t.speeds[c])
	}
	fmt.Fprintf(&b, "*=%g", t.fallback)
	return b.String()
}

var _ Profile = (*SpeedTable)(nil)
