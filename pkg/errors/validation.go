package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// roadClassRegex matches OSM highway values such as "motorway_link" or
// "living_street".
var roadClassRegex = regexp.MustCompile(`^[a-z][a-z0-9_:]*$`)

// ValidateRoadClass validates a road class name used as a speed-profile key.
func ValidateRoadClass(class string) error {
	if class == "" {
		return New(ErrCodeInvalidProfile, "road class cannot be empty")
	}
	if len(class) > 64 {
		return New(ErrCodeInvalidProfile, "road class too long (max 64 characters): %q", class)
	}
	if !roadClassRegex.MatchString(class) {
		return New(ErrCodeInvalidProfile, "invalid road class: %q", class)
	}
	return nil
}

// ValidateSpeed validates a default speed in km/h. Speeds must be finite
// and strictly positive.
func ValidateSpeed(class string, kmh float64) error {
	if math.IsNaN(kmh) || math.IsInf(kmh, 0) {
		return New(ErrCodeInvalidProfile, "speed for %q must be finite", class)
	}
	if kmh <= 0 {
		return New(ErrCodeInvalidProfile, "speed for %q must be positive, got %g", class, kmh)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
