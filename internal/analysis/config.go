package analysis

import (
	"runtime"

	"squatanalyzer/internal/sampler"
	"squatanalyzer/internal/tracker"
)

// Config collects every tunable knob of the pipeline in one place.
type Config struct {
	// VisibilityThreshold is the single joint-confidence gate.
	VisibilityThreshold float64 `json:"visibility_threshold"`

	// MaxFramesToProcess caps the sampled frame set per video.
	MaxFramesToProcess int `json:"max_frames_to_process"`

	// MaxFrameSkip bounds the sampling stride so short videos keep enough
	// temporal resolution.
	MaxFrameSkip int `json:"max_frame_skip"`

	// TargetProcessingSeconds and EstimatedSecondsPerFrame size the frame
	// budget so the pipeline completes within a request/response cycle.
	TargetProcessingSeconds  float64 `json:"target_processing_seconds"`
	EstimatedSecondsPerFrame float64 `json:"estimated_seconds_per_frame"`

	// PhaseHysteresis is the knee-angle trend dead band, in degrees.
	PhaseHysteresis float64 `json:"phase_hysteresis"`

	// Workers bounds the per-frame inference pool; zero means NumCPU.
	Workers int `json:"workers"`

	Sampler sampler.Config `json:"sampler"`
	Tracker tracker.Config `json:"tracker"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		VisibilityThreshold:      0.5,
		MaxFramesToProcess:       20,
		MaxFrameSkip:             10,
		TargetProcessingSeconds:  30,
		EstimatedSecondsPerFrame: 0.5,
		PhaseHysteresis:          2,
		Sampler:                  sampler.DefaultConfig(),
		Tracker:                  tracker.DefaultConfig(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
