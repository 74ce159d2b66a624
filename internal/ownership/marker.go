// Package ownership decides whether a tenant object belongs to this kit.
// The check is the sole gate for every delete operation and is pure: no I/O,
// no clock, no network.
package ownership

import "strings"

// DefaultMarker is the literal stamped into the description/notes field of
// every object the kit creates.
const DefaultMarker = "Imported by Intune Hydration Kit"

type Checker struct {
	marker string
}

func NewChecker(marker string) Checker {
	if marker == "" {
		marker = DefaultMarker
	}
	return Checker{marker: marker}
}

func (c Checker) Marker() string {
	return c.marker
}

// IsOwned reports whether the marker field value proves kit ownership.
// Empty input is never owned. Extra surrounding text is fine; the exact
// marker substring must appear.
func (c Checker) IsOwned(markerFieldValue string) bool {
	if markerFieldValue == "" {
		return false
	}
	return strings.Contains(markerFieldValue, c.marker)
}

// Stamp appends the marker to an original description, or returns the bare
// marker when there is none. Stamping an already-stamped value is a no-op so
// force-updates do not accumulate markers.
func (c Checker) Stamp(original string) string {
	if c.IsOwned(original) {
		return original
	}
	if original == "" {
		return c.marker
	}
	return original + " - " + c.marker
}
