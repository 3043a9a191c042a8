package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConverterConfig(t *testing.T) {
	cfg := DefaultConverterConfig()

	if cfg.DTTrackSrc == nil || *cfg.DTTrackSrc != "dttfDigis" {
		t.Errorf("Expected DTTrackSrc dttfDigis, got %v", cfg.DTTrackSrc)
	}
	if cfg.BXMin == nil || *cfg.BXMin != -3 {
		t.Errorf("Expected BXMin -3, got %v", cfg.BXMin)
	}
	if cfg.BXMax == nil || *cfg.BXMax != 3 {
		t.Errorf("Expected BXMax 3, got %v", cfg.BXMax)
	}
	if cfg.GetTriggerPrimitiveSrc() != "L1TMuonTriggerPrimitives" {
		t.Errorf("GetTriggerPrimitiveSrc() = %q", cfg.GetTriggerPrimitiveSrc())
	}
	if cfg.GetOutputLabel() != "dttfConverted" {
		t.Errorf("GetOutputLabel() = %q", cfg.GetOutputLabel())
	}
	if cfg.GetOnUnknownTrackClass() != PolicyAbort {
		t.Errorf("GetOnUnknownTrackClass() = %q, want abort", cfg.GetOnUnknownTrackClass())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConverterConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "converter.json")

	testJSON := `{
  "DTTrackSrc": "simDttfDigis",
  "BX_min": 0,
  "BX_max": 0,
  "on_unknown_track_class": "skip"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConverterConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetDTTrackSrc(); got != "simDttfDigis" {
		t.Errorf("GetDTTrackSrc() = %q, want simDttfDigis", got)
	}
	if cfg.GetBXMin() != 0 || cfg.GetBXMax() != 0 {
		t.Errorf("bx window = [%d, %d], want [0, 0]", cfg.GetBXMin(), cfg.GetBXMax())
	}
	if cfg.GetOnUnknownTrackClass() != PolicySkip {
		t.Errorf("GetOnUnknownTrackClass() = %q, want skip", cfg.GetOnUnknownTrackClass())
	}
	// Omitted fields keep defaults.
	if got := cfg.GetTriggerPrimitiveSrc(); got != "L1TMuonTriggerPrimitives" {
		t.Errorf("GetTriggerPrimitiveSrc() = %q, want default", got)
	}
}

func TestLoadConverterConfigInvertedWindowIsValid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "inverted.json")
	if err := os.WriteFile(configPath, []byte(`{"BX_min": 2, "BX_max": -2}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConverterConfig(configPath)
	if err != nil {
		t.Fatalf("inverted window should load: %v", err)
	}
	if cfg.GetBXMin() != 2 || cfg.GetBXMax() != -2 {
		t.Errorf("bx window = [%d, %d], want [2, -2]", cfg.GetBXMin(), cfg.GetBXMax())
	}
}

func TestValidateBXBounds(t *testing.T) {
	lo, hi := -MaxBXOffset, MaxBXOffset
	cfg := &ConverterConfig{BXMin: &lo, BXMax: &hi}
	if err := cfg.Validate(); err != nil {
		t.Errorf("window at the bounds should validate: %v", err)
	}

	inverted := &ConverterConfig{BXMin: &hi, BXMax: &lo}
	if err := inverted.Validate(); err != nil {
		t.Errorf("inverted window within bounds should validate: %v", err)
	}

	over := MaxBXOffset + 1
	cfg.BXMax = &over
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for BX_max beyond MaxBXOffset")
	}
}

func TestLoadConverterConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong extension", "cfg.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{`, "failed to parse config JSON"},
		{"empty label", "label.json", `{"DTTrackSrc": ""}`, "DTTrackSrc must not be empty"},
		{"empty tp label", "tp.json", `{"TriggerPrimitiveSrc": ""}`, "TriggerPrimitiveSrc must not be empty"},
		{"empty output", "out.json", `{"output_label": ""}`, "output_label must not be empty"},
		{"bad policy", "policy.json", `{"on_unknown_track_class": "ignore"}`, "on_unknown_track_class"},
		{"bx max at int limit", "bxmax.json", `{"BX_max": 9223372036854775807}`, "BX_max must be within [-64, 64]"},
		{"bx min too low", "bxmin.json", `{"BX_min": -65}`, "BX_min must be within [-64, 64]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			_, err := LoadConverterConfig(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadConverterConfig(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultConverterConfig()

	if cfg.GetDTTrackSrc() != def.GetDTTrackSrc() ||
		cfg.GetTriggerPrimitiveSrc() != def.GetTriggerPrimitiveSrc() ||
		cfg.GetBXMin() != def.GetBXMin() ||
		cfg.GetBXMax() != def.GetBXMax() ||
		cfg.GetOutputLabel() != def.GetOutputLabel() ||
		cfg.GetOnUnknownTrackClass() != def.GetOnUnknownTrackClass() {
		t.Errorf("defaults file disagrees with built-in defaults: %+v", cfg)
	}
}
