// Package derivative describes the asset variants of a 3D model: which
// usage they target, at which quality, and how to pick the best available
// one for a requested quality.
package derivative

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownQuality is returned when parsing an unrecognized quality name.
var ErrUnknownQuality = errors.New("unknown derivative quality")

// ErrUnknownUsage is returned when parsing an unrecognized usage name.
var ErrUnknownUsage = errors.New("unknown derivative usage")

// Quality is the level of detail of a derivative. The LOD ladder is ordered
// Thumb < Low < Medium < High < Highest. AR sits outside the ladder.
type Quality int

const (
	Thumb Quality = iota
	Low
	Medium
	High
	Highest
	AR
)

var qualityNames = [...]string{
	Thumb:   "thumb",
	Low:     "low",
	Medium:  "medium",
	High:    "high",
	Highest: "highest",
	AR:      "ar",
}

// Ladder lists the qualities that take part in level-of-detail selection,
// lowest first.
var Ladder = []Quality{Thumb, Low, Medium, High, Highest}

// Lowest is the bottom of the LOD ladder.
const Lowest = Thumb

// String returns the lowercase quality name.
func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("quality(%d)", int(q))
	}
	return qualityNames[q]
}

// Valid reports whether q is a known quality.
func (q Quality) Valid() bool {
	return q >= Thumb && q <= AR
}

// Lower returns the next quality down the ladder, or q itself at the bottom.
func (q Quality) Lower() Quality {
	if q <= Lowest || q > Highest {
		return q
	}
	return q - 1
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuality, int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	p, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = p
	return nil
}

// ParseQuality parses a case-insensitive quality name.
func ParseQuality(s string) (Quality, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range qualityNames {
		if n == name {
			return Quality(i), nil
		}
	}
	return Thumb, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// Usage is the purpose a derivative is produced for.
type Usage int

const (
	Web2D Usage = iota
	Web3D
	App3D
	IOSApp3D
	Print3D
	Editorial3D
)

var usageNames = [...]string{
	Web2D:       "web2d",
	Web3D:       "web3d",
	App3D:       "app3d",
	IOSApp3D:    "iosapp3d",
	Print3D:     "print3d",
	Editorial3D: "editorial3d",
}

// String returns the lowercase usage name.
func (u Usage) String() string {
	if u < 0 || int(u) >= len(usageNames) {
		return fmt.Sprintf("usage(%d)", int(u))
	}
	return usageNames[u]
}

// MarshalText implements encoding.TextMarshaler.
func (u Usage) MarshalText() ([]byte, error) {
	if u < Web2D || u > Editorial3D {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUsage, int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Usage) UnmarshalText(text []byte) error {
	p, err := ParseUsage(string(text))
	if err != nil {
		return err
	}
	*u = p
	return nil
}

// ParseUsage parses a case-insensitive usage name.
func ParseUsage(s string) (Usage, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range usageNames {
		if n == name {
			return Usage(i), nil
		}
	}
	return Web3D, fmt.Errorf("%w: %q", ErrUnknownUsage, s)
}
