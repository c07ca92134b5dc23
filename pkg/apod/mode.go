package apod

import "strings"

// Mode selects which picture is requested from the service.
type Mode int

const (
	Today Mode = iota
	Random
)

// ParseMode maps the picturetype request parameter to a Mode.
// Only "random" (any case) selects a random picture, everything else is today.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "random") {
		return Random
	}
	return Today
}

func (m Mode) String() string {
	if m == Random {
		return "random"
	}
	return "today"
}

// describe is the human readable target used in diagnostics.
func (m Mode) describe() string {
	if m == Random {
		return "random picture"
	}
	return "today's picture"
}
