package roadgraph

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MphToKmh converts miles per hour to kilometers per hour.
const MphToKmh = 1.60934

// SpeedSource names the step of the fallback chain that produced a speed.
type SpeedSource int

const (
	SourceTagged SpeedSource = iota
	SourceClassDefault
	SourceFallback
)

func (s SpeedSource) String() string {
	switch s {
	case SourceTagged:
		return "tagged"
	case SourceClassDefault:
		return "class-default"
	case SourceFallback:
		return "fallback"
	}
	return "unknown"
}

// Resolution is a resolved speed together with where it came from.
type Resolution struct {
	Speed  float64
	Source SpeedSource
}

// ResolveSpeed returns the travel speed of e in km/h.
// A nil profile means DefaultProfile.
func ResolveSpeed(e RawEdge, p Profile) float64 {
	return ExplainSpeed(e, p).Speed
}

// ExplainSpeed is ResolveSpeed with the originating step reported.
func ExplainSpeed(e RawEdge, p Profile) Resolution {
	if p == nil {
		p = DefaultProfile()
	}

	sl := e.SpeedLimit
	switch {
	case sl.IsList():
		for _, v := range sl.Values() {
			if s, ok := ParseSpeed(v); ok && s != 0 {
				return Resolution{Speed: s, Source: SourceTagged}
			}
		}
	case sl.IsSet() && truthy(sl.Values()[0]):
		if s, ok := ParseSpeed(sl.Values()[0]); ok {
			return Resolution{Speed: s, Source: SourceTagged}
		}
	}

	if e.RoadClass != nil {
		if s, ok := p.DefaultSpeed(*e.RoadClass); ok {
			return Resolution{Speed: s, Source: SourceClassDefault}
		}
	}
	return Resolution{Speed: p.Fallback(), Source: SourceFallback}
}

// ParseSpeed parses a single speed-limit value into km/h.
//
// Text containing "mph" in any case is read as miles per hour once every
// "mph" is removed; other text and numbers are taken as km/h. Values that
// are not text or numbers, or that do not parse to a finite non-negative
// number, yield false.
func ParseSpeed(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		return parseSpeedText(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return checkSpeed(f)
	case float64:
		return checkSpeed(x)
	case float32:
		return checkSpeed(float64(x))
	case int:
		return checkSpeed(float64(x))
	case int64:
		return checkSpeed(float64(x))
	case int32:
		return checkSpeed(float64(x))
	}
	return 0, false
}

func parseSpeedText(s string) (float64, bool) {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "mph") {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(lower, "mph", "")), 64)
		if err != nil {
			return 0, false
		}
		return checkSpeed(f * MphToKmh)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return checkSpeed(f)
}

func checkSpeed(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// truthy reports whether a scalar speed limit counts as present: empty
// text, numeric zero and false do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	}
	return true
}
