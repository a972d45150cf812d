package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/pic.report/internal/units"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// Options holds the beamlet analysis options. Fields are pointers so a partial
// JSON file only overrides what it names; the Get* methods supply defaults.
// Length-like options are expressed in plasma wavelengths.
type Options struct {
	Species         *string  `json:"species,omitempty"`
	IgnoreLimits    *bool    `json:"ignore_limits,omitempty"`
	BeamProminence  *float64 `json:"beam_prominence,omitempty"`
	MinPeakDistance *float64 `json:"min_peak_distance,omitempty"`
	SmoothSpan      *float64 `json:"smooth_span,omitempty"`
	RadialInclude   *float64 `json:"radial_include,omitempty"`
	UnitSystem      *string  `json:"unit_system,omitempty"`
	LengthUnit      *string  `json:"length_unit,omitempty"`
	ChargeUnit      *string  `json:"charge_unit,omitempty"`

	// Axis limits in display units. Empty means the whole box.
	LimitsX1 []float64 `json:"limits_x1,omitempty"`
	LimitsX2 []float64 `json:"limits_x2,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyOptions returns Options with all fields unset.
func EmptyOptions() *Options {
	return &Options{}
}

// DefaultOptions returns Options with every field set to its default value.
func DefaultOptions() *Options {
	o := EmptyOptions()
	return &Options{
		Species:         ptrString(o.GetSpecies()),
		IgnoreLimits:    ptrBool(o.GetIgnoreLimits()),
		BeamProminence:  ptrFloat64(o.GetBeamProminence()),
		MinPeakDistance: ptrFloat64(o.GetMinPeakDistance()),
		SmoothSpan:      ptrFloat64(o.GetSmoothSpan()),
		RadialInclude:   ptrFloat64(o.GetRadialInclude()),
		UnitSystem:      ptrString(o.GetUnitSystem()),
	}
}

// LoadOptions loads Options from a JSON file.
// The file must have a .json extension and be under the max file size.
// Fields omitted from the JSON file keep their defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	opts := EmptyOptions()
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *Options {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,          // from internal/config/
		"../../../" + DefaultConfigPath,       // from internal/pic/pipeline/
		"../../../../" + DefaultConfigPath,    // deeper packages
		"../../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if opts, err := LoadOptions(path); err == nil {
			return opts
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

func readConfigFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// Validate checks that the configured values are usable.
func (o *Options) Validate() error {
	if o.Species != nil && *o.Species == "" {
		return fmt.Errorf("species must not be empty")
	}
	if o.BeamProminence != nil {
		if *o.BeamProminence <= 0 || *o.BeamProminence > 1 {
			return fmt.Errorf("beam_prominence must be in (0, 1], got %f", *o.BeamProminence)
		}
	}
	if o.MinPeakDistance != nil && *o.MinPeakDistance <= 0 {
		return fmt.Errorf("min_peak_distance must be positive, got %f", *o.MinPeakDistance)
	}
	if o.SmoothSpan != nil && *o.SmoothSpan <= 0 {
		return fmt.Errorf("smooth_span must be positive, got %f", *o.SmoothSpan)
	}
	if o.RadialInclude != nil {
		if *o.RadialInclude <= 0 || *o.RadialInclude > 1 {
			return fmt.Errorf("radial_include must be in (0, 1], got %f", *o.RadialInclude)
		}
	}
	if o.UnitSystem != nil && !units.IsValid(*o.UnitSystem) {
		return fmt.Errorf("invalid unit_system %q, must be one of: %s", *o.UnitSystem, units.GetValidSystemsString())
	}
	if err := validateLimits("limits_x1", o.LimitsX1); err != nil {
		return err
	}
	return validateLimits("limits_x2", o.LimitsX2)
}

func validateLimits(name string, lim []float64) error {
	if len(lim) == 0 {
		return nil
	}
	if len(lim) != 2 {
		return fmt.Errorf("%s must have exactly 2 values, got %d", name, len(lim))
	}
	if lim[1] <= lim[0] {
		return fmt.Errorf("%s is inverted or empty: [%g, %g]", name, lim[0], lim[1])
	}
	return nil
}

// GetSpecies returns the species value or the default.
func (o *Options) GetSpecies() string {
	if o.Species == nil {
		return "beam"
	}
	return *o.Species
}

// GetIgnoreLimits returns the ignore_limits value or the default.
func (o *Options) GetIgnoreLimits() bool {
	if o.IgnoreLimits == nil {
		return false
	}
	return *o.IgnoreLimits
}

// GetBeamProminence returns the beam_prominence value or the default.
func (o *Options) GetBeamProminence() float64 {
	if o.BeamProminence == nil {
		return 0.1
	}
	return *o.BeamProminence
}

// GetMinPeakDistance returns the min_peak_distance value or the default.
func (o *Options) GetMinPeakDistance() float64 {
	if o.MinPeakDistance == nil {
		return 0.5
	}
	return *o.MinPeakDistance
}

// GetSmoothSpan returns the smooth_span value or the default.
func (o *Options) GetSmoothSpan() float64 {
	if o.SmoothSpan == nil {
		return 0.1
	}
	return *o.SmoothSpan
}

// GetRadialInclude returns the radial_include value or the default.
func (o *Options) GetRadialInclude() float64 {
	if o.RadialInclude == nil {
		return 0.95
	}
	return *o.RadialInclude
}

// GetUnitSystem returns the unit_system value or the default.
func (o *Options) GetUnitSystem() string {
	if o.UnitSystem == nil {
		return units.Normalized
	}
	return *o.UnitSystem
}

// GetLengthUnit returns the explicit SI length unit, or "" for the base unit.
func (o *Options) GetLengthUnit() string {
	if o.LengthUnit == nil {
		return ""
	}
	return *o.LengthUnit
}

// GetChargeUnit returns the explicit SI charge unit, or "" for the base unit.
func (o *Options) GetChargeUnit() string {
	if o.ChargeUnit == nil {
		return ""
	}
	return *o.ChargeUnit
}
