package cluster

import (
	"fmt"
)

// Tier is a coarse classification of camera altitude.
type Tier int

const (
	TierGlobal Tier = iota
	TierMedium
	TierClose
)

const (
	globalAltitude = 2.5
	mediumAltitude = 1.0
)

var tierNames = map[Tier]string{
	TierGlobal: "global",
	TierMedium: "medium",
	TierClose:  "close",
}

// Grid size per tier, in degrees. 0 disables clustering.
var tierGridSizes = map[Tier]float64{
	TierGlobal: 30,
	TierMedium: 10,
	TierClose:  0,
}

// ZoomTierOf maps a viewport altitude to a tier.
func ZoomTierOf(altitude float64) Tier {
	if altitude > globalAltitude {
		return TierGlobal
	}
	if altitude > mediumAltitude {
		return TierMedium
	}
	return TierClose
}

func GridSizeOf(tier Tier) (float64, error) {
	size, ok := tierGridSizes[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTier, int(tier))
	}
	return size, nil
}

func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

func (t Tier) MarshalText() ([]byte, error) {
	name, ok := tierNames[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(name), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PointRadius is the marker radius the globe draws at an altitude.
func PointRadius(altitude float64) float64 {
	switch {
	case altitude > 2.5:
		return 0.3
	case altitude > 1.5:
		return 0.45
	case altitude > 1.0:
		return 0.55
	default:
		return 0.7
	}
}

// FocusAltitude is where the camera flies to when a cluster is clicked.
func FocusAltitude(altitude float64) float64 {
	if altitude > globalAltitude {
		return 1.5
	}
	return 0.5
}
