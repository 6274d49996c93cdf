package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/lightning"
)

// infillFlags are the infill settings that can be given on the command line.
// Flags that are not set keep the value from the configuration file.
type infillFlags struct {
	settings lightning.Settings
	kernel   string
}

func (f *infillFlags) register(cmd *cobra.Command) {
	def := lightning.DefaultSettings()
	fs := cmd.Flags()
	fs.Int64Var(&f.settings.LineWidth, "line-width", def.LineWidth, "extrusion width in µm")
	fs.Int64Var(&f.settings.LineDistance, "line-distance", def.LineDistance, "infill line spacing in µm")
	fs.Int64Var(&f.settings.LayerThickness, "layer-thickness", def.LayerThickness, "layer height in µm (the stack's own value wins)")
	fs.Float64Var(&f.settings.OverhangAngle, "overhang-angle", def.OverhangAngle, "maximum unsupported angle in degrees")
	fs.Float64Var(&f.settings.PruneAngle, "prune-angle", def.PruneAngle, "angle at which branch ends are pruned in degrees")
	fs.Float64Var(&f.settings.StraighteningAngle, "straightening-angle", def.StraighteningAngle, "angle at which branches are straightened in degrees")
	fs.StringVar(&f.kernel, "kernel", "", "boundary backend: exact, sdfx (default from config)")
}

// resolve merges the flags that were set on top of base.
func (f *infillFlags) resolve(cmd *cobra.Command, base lightning.Settings, baseKernel string) (lightning.Settings, string) {
	s := base
	changed := cmd.Flags().Changed
	if changed("line-width") {
		s.LineWidth = f.settings.LineWidth
	}
	if changed("line-distance") {
		s.LineDistance = f.settings.LineDistance
	}
	if changed("layer-thickness") {
		s.LayerThickness = f.settings.LayerThickness
	}
	if changed("overhang-angle") {
		s.OverhangAngle = f.settings.OverhangAngle
	}
	if changed("prune-angle") {
		s.PruneAngle = f.settings.PruneAngle
	}
	if changed("straightening-angle") {
		s.StraighteningAngle = f.settings.StraighteningAngle
	}
	kernel := baseKernel
	if f.kernel != "" {
		kernel = f.kernel
	}
	return s, kernel
}
