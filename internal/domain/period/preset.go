package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Preset names a well-known reporting period relative to a reference date.
type Preset string

const (
	ThisMonth   Preset = "this-month"
	LastMonth   Preset = "last-month"
	ThisQuarter Preset = "this-quarter"
	LastQuarter Preset = "last-quarter"
	ThisYear    Preset = "this-year"
	LastYear    Preset = "last-year"
	Custom      Preset = "custom"
)

// ErrCustomPreset is returned when resolving Custom: it has no canonical range.
var ErrCustomPreset = errors.New("custom preset has no canonical range")

// presets is the detection order. Custom is never detected, only returned as fallback.
var presets = []Preset{ThisMonth, LastMonth, ThisQuarter, LastQuarter, ThisYear, LastYear}

// Presets returns the presets that resolve to a concrete range, in detection order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// IsValid reports whether p is a known preset, including Custom.
func (p Preset) IsValid() bool {
	if p == Custom {
		return true
	}
	for _, known := range presets {
		if p == known {
			return true
		}
	}
	return false
}

// String returns the preset identifier.
func (p Preset) String() string { return string(p) }

// ParsePreset parses a preset identifier, case-insensitively.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown period preset %q", s)
	}
	return p, nil
}

// ResolvePreset maps a preset to its concrete range as seen from ref.
// Quarters are calendar quarters regardless of fiscal year settings.
func ResolvePreset(p Preset, ref Date) (DateRange, error) {
	switch p {
	case ThisMonth:
		return monthRange(ref.Year(), ref.Month()), nil
	case LastMonth:
		return monthRange(ref.Year(), ref.Month()-1), nil
	case ThisQuarter:
		return quarterRange(ref.Year(), ref.Quarter()), nil
	case LastQuarter:
		if ref.Quarter() == 1 {
			return quarterRange(ref.Year()-1, 4), nil
		}
		return quarterRange(ref.Year(), ref.Quarter()-1), nil
	case ThisYear:
		return yearRange(ref.Year()), nil
	case LastYear:
		return yearRange(ref.Year() - 1), nil
	case Custom:
		return DateRange{}, ErrCustomPreset
	default:
		return DateRange{}, fmt.Errorf("unknown period preset %q", p)
	}
}

// DetectPreset returns the preset whose range, resolved against today in
// the local time zone, equals r. It returns Custom when none match.
func DetectPreset(r DateRange) Preset {
	return DetectPresetAt(r, Today(time.Local))
}

// DetectPresetAt is DetectPreset with an explicit reference date.
func DetectPresetAt(r DateRange, now Date) Preset {
	for _, p := range presets {
		resolved, err := ResolvePreset(p, now)
		if err != nil {
			continue
		}
		if resolved.Equal(r) {
			return p
		}
	}
	return Custom
}

// monthRange normalizes month overflow, so month 0 is December of the prior year.
func monthRange(year int, month time.Month) DateRange {
	first := NewDate(year, month, 1)
	return DateRange{From: first, To: first.EndOfMonth()}
}

func quarterRange(year, quarter int) DateRange {
	startMonth := time.Month((quarter-1)*3 + 1)
	return DateRange{
		From: NewDate(year, startMonth, 1),
		To:   NewDate(year, startMonth+3, 0),
	}
}

func yearRange(year int) DateRange {
	return DateRange{
		From: NewDate(year, time.January, 1),
		To:   NewDate(year, time.December, 31),
	}
}
