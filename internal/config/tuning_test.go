package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptyConfigFallbacks(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.GetFilterFreq() != 60.0 {
		t.Errorf("GetFilterFreq() = %f, want 60.0", cfg.GetFilterFreq())
	}
	if cfg.GetFilterMinCutoff() != 1.0 {
		t.Errorf("GetFilterMinCutoff() = %f, want 1.0", cfg.GetFilterMinCutoff())
	}
	if cfg.GetDownAngle() != 80.0 {
		t.Errorf("GetDownAngle() = %f, want 80.0", cfg.GetDownAngle())
	}
	if cfg.GetUpThreshold() != 120.0 {
		t.Errorf("GetUpThreshold() = %f, want 120.0", cfg.GetUpThreshold())
	}
	if cfg.GetMinDownFrames() != 1 {
		t.Errorf("GetMinDownFrames() = %d, want 1", cfg.GetMinDownFrames())
	}
	if cfg.GetMinPlankAngle() != 160.0 {
		t.Errorf("GetMinPlankAngle() = %f, want 160.0", cfg.GetMinPlankAngle())
	}
	if cfg.GetTargetDownSeconds() != 2.0 {
		t.Errorf("GetTargetDownSeconds() = %f, want 2.0", cfg.GetTargetDownSeconds())
	}
	if cfg.GetFPS() != 30.0 {
		t.Errorf("GetFPS() = %f, want 30.0", cfg.GetFPS())
	}
	if cfg.GetMinConfidence() != 0.3 {
		t.Errorf("GetMinConfidence() = %f, want 0.3", cfg.GetMinConfidence())
	}
	if cfg.GetRepStartAngle() != 160.0 {
		t.Errorf("GetRepStartAngle() = %f, want 160.0", cfg.GetRepStartAngle())
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	// Partial config: only overrides a few fields.
	testJSON := `{
  "filter_beta": 0.5,
  "down_angle": 90.0,
  "min_down_frames": 3,
  "fps": 24.0
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetFilterBeta() != 0.5 {
		t.Errorf("GetFilterBeta() = %f, want 0.5", cfg.GetFilterBeta())
	}
	if cfg.GetDownAngle() != 90.0 {
		t.Errorf("GetDownAngle() = %f, want 90.0", cfg.GetDownAngle())
	}
	if cfg.GetMinDownFrames() != 3 {
		t.Errorf("GetMinDownFrames() = %d, want 3", cfg.GetMinDownFrames())
	}
	if cfg.GetFPS() != 24.0 {
		t.Errorf("GetFPS() = %f, want 24.0", cfg.GetFPS())
	}

	// Omitted fields keep their fallbacks.
	if cfg.GetUpThreshold() != 120.0 {
		t.Errorf("GetUpThreshold() = %f, want fallback 120.0", cfg.GetUpThreshold())
	}
	if cfg.GetMinUpFrames() != 1 {
		t.Errorf("GetMinUpFrames() = %d, want fallback 1", cfg.GetMinUpFrames())
	}
}

func TestLoadTuningConfigRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		json string
	}{
		{"negative filter freq", `{"filter_freq": -1.0}`},
		{"zero fps", `{"fps": 0}`},
		{"down angle too large", `{"down_angle": 200}`},
		{"confidence above one", `{"min_confidence": 1.5}`},
		{"negative min frames", `{"min_down_frames": -2}`},
		{"not json at all", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "bad.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			if _, err := LoadTuningConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadTuningConfigRejectsNonJSONExtension(t *testing.T) {
	if _, err := LoadTuningConfig("tuning.yaml"); err == nil {
		t.Error("expected error for non-.json extension")
	}
}

func TestMustLoadDefaultConfigMatchesFallbacks(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	empty := EmptyTuningConfig()

	if cfg.GetDownAngle() != empty.GetDownAngle() {
		t.Errorf("defaults file down_angle %f differs from compiled fallback %f",
			cfg.GetDownAngle(), empty.GetDownAngle())
	}
	if cfg.GetFilterBeta() != empty.GetFilterBeta() {
		t.Errorf("defaults file filter_beta %f differs from compiled fallback %f",
			cfg.GetFilterBeta(), empty.GetFilterBeta())
	}
	if cfg.GetFPS() != empty.GetFPS() {
		t.Errorf("defaults file fps %f differs from compiled fallback %f",
			cfg.GetFPS(), empty.GetFPS())
	}
}
