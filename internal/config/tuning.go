// Package config loads the JSON tuning file that carries every numeric
// parameter of the analysis pipeline: filter, counter, position check,
// scorer, and session orchestration. Fields are pointer-typed so a
// partial file only overrides what it names; the Get* accessors supply
// compiled-in fallbacks for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file,
// relative to the repository root. This is the single source of truth
// for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
type TuningConfig struct {
	// One Euro filter params
	FilterFreq      *float64 `json:"filter_freq,omitempty"`
	FilterMinCutoff *float64 `json:"filter_min_cutoff,omitempty"`
	FilterBeta      *float64 `json:"filter_beta,omitempty"`
	FilterDCutoff   *float64 `json:"filter_d_cutoff,omitempty"`

	// Repetition counter params
	DownAngle         *float64 `json:"down_angle,omitempty"`
	AngleTolerance    *float64 `json:"angle_tolerance,omitempty"`
	UpThreshold       *float64 `json:"up_threshold,omitempty"`
	ParallelThreshold *float64 `json:"parallel_threshold,omitempty"`
	MinDownFrames     *int     `json:"min_down_frames,omitempty"`
	MinUpFrames       *int     `json:"min_up_frames,omitempty"`

	// Position check params
	MinPlankAngle     *float64 `json:"min_plank_angle,omitempty"`
	MaxBodyTilt       *float64 `json:"max_body_tilt,omitempty"`
	FaceDownThreshold *float64 `json:"face_down_threshold,omitempty"`

	// Scorer params
	TargetDownSeconds *float64 `json:"target_down_seconds,omitempty"`
	TargetUpSeconds   *float64 `json:"target_up_seconds,omitempty"`
	FPS               *float64 `json:"fps,omitempty"`

	// Session orchestration params
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	RepStartAngle *float64 `json:"rep_start_angle,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their compiled-in defaults, so partial configs
// are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching upward from the working directory.
// Panics if the file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that any set values are in range. Unset fields are
// fine; the fallbacks are always valid.
func (c *TuningConfig) Validate() error {
	for name, v := range map[string]*float64{
		"filter_freq":         c.FilterFreq,
		"filter_min_cutoff":   c.FilterMinCutoff,
		"filter_d_cutoff":     c.FilterDCutoff,
		"up_threshold":        c.UpThreshold,
		"parallel_threshold":  c.ParallelThreshold,
		"target_down_seconds": c.TargetDownSeconds,
		"target_up_seconds":   c.TargetUpSeconds,
		"fps":                 c.FPS,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", name, *v)
		}
	}

	if c.FilterBeta != nil && *c.FilterBeta < 0 {
		return fmt.Errorf("filter_beta must be non-negative, got %f", *c.FilterBeta)
	}
	if c.DownAngle != nil && (*c.DownAngle <= 0 || *c.DownAngle >= 180) {
		return fmt.Errorf("down_angle must be in (0, 180), got %f", *c.DownAngle)
	}
	if c.AngleTolerance != nil && *c.AngleTolerance < 0 {
		return fmt.Errorf("angle_tolerance must be non-negative, got %f", *c.AngleTolerance)
	}
	if c.MinDownFrames != nil && *c.MinDownFrames < 1 {
		return fmt.Errorf("min_down_frames must be at least 1, got %d", *c.MinDownFrames)
	}
	if c.MinUpFrames != nil && *c.MinUpFrames < 1 {
		return fmt.Errorf("min_up_frames must be at least 1, got %d", *c.MinUpFrames)
	}
	if c.MinPlankAngle != nil && (*c.MinPlankAngle <= 0 || *c.MinPlankAngle > 180) {
		return fmt.Errorf("min_plank_angle must be in (0, 180], got %f", *c.MinPlankAngle)
	}
	if c.MaxBodyTilt != nil && (*c.MaxBodyTilt <= 0 || *c.MaxBodyTilt > 90) {
		return fmt.Errorf("max_body_tilt must be in (0, 90], got %f", *c.MaxBodyTilt)
	}
	if c.MinConfidence != nil && (*c.MinConfidence < 0 || *c.MinConfidence > 1) {
		return fmt.Errorf("min_confidence must be in [0, 1], got %f", *c.MinConfidence)
	}
	if c.RepStartAngle != nil && (*c.RepStartAngle <= 0 || *c.RepStartAngle > 180) {
		return fmt.Errorf("rep_start_angle must be in (0, 180], got %f", *c.RepStartAngle)
	}
	return nil
}

// Accessors with fallback defaults. The fallbacks mirror the values in
// config/tuning.defaults.json so code without a config file behaves the
// same as code loading an unmodified one.

func (c *TuningConfig) GetFilterFreq() float64 {
	if c.FilterFreq != nil {
		return *c.FilterFreq
	}
	return 60.0
}

func (c *TuningConfig) GetFilterMinCutoff() float64 {
	if c.FilterMinCutoff != nil {
		return *c.FilterMinCutoff
	}
	return 1.0
}

func (c *TuningConfig) GetFilterBeta() float64 {
	if c.FilterBeta != nil {
		return *c.FilterBeta
	}
	return 0.1
}

func (c *TuningConfig) GetFilterDCutoff() float64 {
	if c.FilterDCutoff != nil {
		return *c.FilterDCutoff
	}
	return 1.0
}

func (c *TuningConfig) GetDownAngle() float64 {
	if c.DownAngle != nil {
		return *c.DownAngle
	}
	return 80.0
}

func (c *TuningConfig) GetAngleTolerance() float64 {
	if c.AngleTolerance != nil {
		return *c.AngleTolerance
	}
	return 30.0
}

func (c *TuningConfig) GetUpThreshold() float64 {
	if c.UpThreshold != nil {
		return *c.UpThreshold
	}
	return 120.0
}

func (c *TuningConfig) GetParallelThreshold() float64 {
	if c.ParallelThreshold != nil {
		return *c.ParallelThreshold
	}
	return 40.0
}

func (c *TuningConfig) GetMinDownFrames() int {
	if c.MinDownFrames != nil {
		return *c.MinDownFrames
	}
	return 1
}

func (c *TuningConfig) GetMinUpFrames() int {
	if c.MinUpFrames != nil {
		return *c.MinUpFrames
	}
	return 1
}

func (c *TuningConfig) GetMinPlankAngle() float64 {
	if c.MinPlankAngle != nil {
		return *c.MinPlankAngle
	}
	return 160.0
}

func (c *TuningConfig) GetMaxBodyTilt() float64 {
	if c.MaxBodyTilt != nil {
		return *c.MaxBodyTilt
	}
	return 30.0
}

func (c *TuningConfig) GetFaceDownThreshold() float64 {
	if c.FaceDownThreshold != nil {
		return *c.FaceDownThreshold
	}
	return 0.2
}

func (c *TuningConfig) GetTargetDownSeconds() float64 {
	if c.TargetDownSeconds != nil {
		return *c.TargetDownSeconds
	}
	return 2.0
}

func (c *TuningConfig) GetTargetUpSeconds() float64 {
	if c.TargetUpSeconds != nil {
		return *c.TargetUpSeconds
	}
	return 1.0
}

func (c *TuningConfig) GetFPS() float64 {
	if c.FPS != nil {
		return *c.FPS
	}
	return 30.0
}

func (c *TuningConfig) GetMinConfidence() float64 {
	if c.MinConfidence != nil {
		return *c.MinConfidence
	}
	return 0.3
}

func (c *TuningConfig) GetRepStartAngle() float64 {
	if c.RepStartAngle != nil {
		return *c.RepStartAngle
	}
	return 160.0
}
