package lightning

import (
	"fmt"
	"math"
)

// Settings are the user facing parameters of lightning infill. Lengths are in
// micrometres, angles in degrees from vertical.
type Settings struct {
	LineWidth          int64   `json:"line_width" toml:"line_width"`
	LineDistance       int64   `json:"line_distance" toml:"line_distance"`
	LayerThickness     int64   `json:"layer_thickness" toml:"layer_thickness"`
	OverhangAngle      float64 `json:"overhang_angle" toml:"overhang_angle"`
	PruneAngle         float64 `json:"prune_angle" toml:"prune_angle"`
	StraighteningAngle float64 `json:"straightening_angle" toml:"straightening_angle"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LineWidth:          400,
		LineDistance:       4000,
		LayerThickness:     200,
		OverhangAngle:      40,
		PruneAngle:         40,
		StraighteningAngle: 40,
	}
}

// Validate checks that the settings describe a usable infill.
func (s Settings) Validate() error {
	if s.LineWidth <= 0 {
		return fmt.Errorf("line width must be positive, got %d", s.LineWidth)
	}
	if s.LineDistance <= 0 {
		return fmt.Errorf("line distance must be positive, got %d", s.LineDistance)
	}
	if s.LayerThickness <= 0 {
		return fmt.Errorf("layer thickness must be positive, got %d", s.LayerThickness)
	}
	angles := []struct {
		name  string
		value float64
	}{
		{"overhang", s.OverhangAngle},
		{"prune", s.PruneAngle},
		{"straightening", s.StraighteningAngle},
	}
	for _, a := range angles {
		if a.value < 0 || a.value >= 90 || math.IsNaN(a.value) {
			return fmt.Errorf("%s angle must be in [0, 90), got %g", a.name, a.value)
		}
	}
	if s.SupportingRadius() < 6 {
		return fmt.Errorf("supporting radius %d is too small to sample", s.SupportingRadius())
	}
	return nil
}

// SupportingRadius is the distance a printed line supports on either side.
func (s Settings) SupportingRadius() int64 {
	return max(s.LineDistance, s.LineWidth) / 2
}

// WallSupportingRadius is how far the walls support the layer above.
func (s Settings) WallSupportingRadius() int64 {
	return s.overhangDistance(s.OverhangAngle)
}

// PruneDistance is how much branch length is removed per layer.
func (s Settings) PruneDistance() int64 {
	return s.overhangDistance(s.PruneAngle)
}

// SmoothMagnitude is how far a node may move per layer when straightening.
func (s Settings) SmoothMagnitude() int64 {
	return s.overhangDistance(s.StraighteningAngle)
}

func (s Settings) overhangDistance(degrees float64) int64 {
	return int64(math.Round(float64(s.LayerThickness) * math.Tan(degrees*math.Pi/180)))
}
