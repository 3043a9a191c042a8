package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical converter defaults file.
const DefaultConfigPath = "config/converter.defaults.json"

// MaxBXOffset bounds |BX_min| and |BX_max|. DTTF readout windows span a
// few bunch crossings around the triggering one.
const MaxBXOffset = 64

// Policies for a candidate whose track class is not in the DTTF table.
const (
	PolicyAbort = "abort"
	PolicySkip  = "skip"
)

// ConverterConfig holds the DTTF converter parameters. Field names of the
// product labels and bx window keep the keys used by existing job
// configurations.
type ConverterConfig struct {
	DTTrackSrc          *string `json:"DTTrackSrc,omitempty"`
	TriggerPrimitiveSrc *string `json:"TriggerPrimitiveSrc,omitempty"`
	BXMin               *int    `json:"BX_min,omitempty"`
	BXMax               *int    `json:"BX_max,omitempty"`

	OutputLabel         *string `json:"output_label,omitempty"`
	OnUnknownTrackClass *string `json:"on_unknown_track_class,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyConverterConfig returns a ConverterConfig with all fields unset.
func EmptyConverterConfig() *ConverterConfig {
	return &ConverterConfig{}
}

// DefaultConverterConfig returns a config with every field populated from
// the built-in defaults.
func DefaultConverterConfig() *ConverterConfig {
	empty := EmptyConverterConfig()
	return &ConverterConfig{
		DTTrackSrc:          ptrString(empty.GetDTTrackSrc()),
		TriggerPrimitiveSrc: ptrString(empty.GetTriggerPrimitiveSrc()),
		BXMin:               ptrInt(empty.GetBXMin()),
		BXMax:               ptrInt(empty.GetBXMax()),
		OutputLabel:         ptrString(empty.GetOutputLabel()),
		OnUnknownTrackClass: ptrString(empty.GetOnUnknownTrackClass()),
	}
}

// LoadConverterConfig loads a ConverterConfig from a JSON file.
// Fields omitted from the file fall back to the Get* defaults.
func LoadConverterConfig(path string) (*ConverterConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConverterConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ConverterConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadConverterConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable. BX_min above
// BX_max is allowed and yields an empty enumeration.
func (c *ConverterConfig) Validate() error {
	if c.DTTrackSrc != nil && *c.DTTrackSrc == "" {
		return fmt.Errorf("DTTrackSrc must not be empty")
	}
	if c.TriggerPrimitiveSrc != nil && *c.TriggerPrimitiveSrc == "" {
		return fmt.Errorf("TriggerPrimitiveSrc must not be empty")
	}
	if c.OutputLabel != nil && *c.OutputLabel == "" {
		return fmt.Errorf("output_label must not be empty")
	}
	for _, b := range []struct {
		key string
		v   *int
	}{{"BX_min", c.BXMin}, {"BX_max", c.BXMax}} {
		if b.v != nil && (*b.v < -MaxBXOffset || *b.v > MaxBXOffset) {
			return fmt.Errorf("%s must be within [-%d, %d], got %d", b.key, MaxBXOffset, MaxBXOffset, *b.v)
		}
	}
	if c.OnUnknownTrackClass != nil {
		switch *c.OnUnknownTrackClass {
		case PolicyAbort, PolicySkip:
		default:
			return fmt.Errorf("on_unknown_track_class must be %q or %q, got %q",
				PolicyAbort, PolicySkip, *c.OnUnknownTrackClass)
		}
	}
	return nil
}

// GetDTTrackSrc returns the label of the DTTF candidate product.
func (c *ConverterConfig) GetDTTrackSrc() string {
	if c.DTTrackSrc == nil {
		return "dttfDigis"
	}
	return *c.DTTrackSrc
}

// GetTriggerPrimitiveSrc returns the label of the trigger primitive product.
func (c *ConverterConfig) GetTriggerPrimitiveSrc() string {
	if c.TriggerPrimitiveSrc == nil {
		return "L1TMuonTriggerPrimitives"
	}
	return *c.TriggerPrimitiveSrc
}

// GetBXMin returns the inclusive lower bx bound.
func (c *ConverterConfig) GetBXMin() int {
	if c.BXMin == nil {
		return -3
	}
	return *c.BXMin
}

// GetBXMax returns the inclusive upper bx bound.
func (c *ConverterConfig) GetBXMax() int {
	if c.BXMax == nil {
		return 3
	}
	return *c.BXMax
}

// GetOutputLabel returns the label the converted tracks are stored under.
func (c *ConverterConfig) GetOutputLabel() string {
	if c.OutputLabel == nil {
		return "dttfConverted"
	}
	return *c.OutputLabel
}

// GetOnUnknownTrackClass returns the unknown track class policy.
func (c *ConverterConfig) GetOnUnknownTrackClass() string {
	if c.OnUnknownTrackClass == nil {
		return PolicyAbort
	}
	return *c.OnUnknownTrackClass
}
