// Package sampler extracts a bounded, time-ordered subset of frames from a
// possibly malformed video using a cascade of extraction strategies.
package sampler

import (
	"errors"
	"image"
	"io"
	"log"
	"sort"

	"squatanalyzer/internal/video"
)

// ErrNoFrames is the terminal failure: every strategy, the brute-force
// fallback and the still-image check all produced nothing.
var ErrNoFrames = errors.New("no frames could be decoded from video")

// Config holds the sampling knobs.
type Config struct {
	// MinYield is the per-strategy acceptance threshold: a strategy that
	// covers at least this fraction of the targets stops the cascade.
	MinYield float64

	// Coverage below this fraction after the full cascade triggers one
	// unconditional full sequential decode.
	Coverage float64

	// MaxConsecutiveFailures bounds decode retries during sequential passes.
	MaxConsecutiveFailures int

	// MaxBruteForceFrames caps the unconditional full decode.
	MaxBruteForceFrames int

	// Downscale bounds applied to every accepted frame.
	MaxWidth  int
	MaxHeight int
}

// DefaultConfig mirrors the production tuning.
func DefaultConfig() Config {
	return Config{
		MinYield:               0.5,
		Coverage:               0.8,
		MaxConsecutiveFailures: 10,
		MaxBruteForceFrames:    1500,
		MaxWidth:               1280,
		MaxHeight:              720,
	}
}

// Request describes one sampling job.
type Request struct {
	Source     video.Source
	Path       string
	ScratchDir string

	// Targets are the frame indices to extract, in ascending order.
	Targets []int

	// SampleFPS is the reduced rate used by the re-encode tiers.
	SampleFPS float64

	// Portrait frames are rotated upright once, at accept time.
	Portrait bool
}

// Strategy is one interchangeable extraction approach.
type Strategy interface {
	Name() string
	Sample(req Request) ([]video.Frame, error)
}

// Sampler runs the ordered strategy cascade.
type Sampler struct {
	cfg        Config
	strategies []Strategy
}

// New returns a sampler with the production strategy order: keyframe seek,
// sequential decode, scratch-dir re-encode, alternate tolerant backend.
func New(cfg Config) *Sampler {
	return &Sampler{
		cfg: cfg,
		strategies: []Strategy{
			&seekStrategy{},
			&sequentialStrategy{maxFailures: cfg.MaxConsecutiveFailures},
			&transcodeStrategy{},
			&tolerantStrategy{},
		},
	}
}

// NewWithStrategies returns a sampler over a custom strategy list.
func NewWithStrategies(cfg Config, strategies ...Strategy) *Sampler {
	return &Sampler{cfg: cfg, strategies: strategies}
}

// Sample runs the cascade and returns ordered (index, image) pairs covering
// as much of the target set as possible. It fails only when nothing at all
// could be decoded.
func (s *Sampler) Sample(req Request) ([]video.Frame, error) {
	if len(req.Targets) == 0 {
		return nil, ErrNoFrames
	}

	var best []video.Frame
	for _, strat := range s.strategies {
		frames, err := strat.Sample(req)
		if err != nil {
			log.Printf("sampler: %s strategy failed: %v", strat.Name(), err)
		}
		if len(frames) > len(best) {
			best = frames
		}
		yield := float64(len(best)) / float64(len(req.Targets))
		if yield >= s.cfg.MinYield {
			log.Printf("sampler: %s strategy accepted with %d/%d frames", strat.Name(), len(best), len(req.Targets))
			break
		}
	}

	coverage := float64(len(best)) / float64(len(req.Targets))
	if coverage < s.cfg.Coverage {
		log.Printf("sampler: coverage %.0f%% below threshold, brute-force decoding", coverage*100)
		if frames := s.bruteForce(req); len(frames) > len(best) {
			best = frames
		}
	}

	if len(best) == 0 {
		if img, err := video.DecodeStill(req.Path); err == nil {
			// The upload is a still image, not a corrupt video: proceed with
			// single-frame input.
			best = []video.Frame{{Index: 0, Image: img}}
		}
	}
	if len(best) == 0 {
		return nil, ErrNoFrames
	}

	// Normalization happens exactly once per accepted frame, here.
	for i := range best {
		best[i].Image = s.accept(req, best[i].Image)
	}
	sort.Slice(best, func(i, j int) bool { return best[i].Index < best[j].Index })
	return best, nil
}

// bruteForce decodes every single frame with no sampling, the final fallback
// before giving up. The decoded set is then matched back onto the targets so
// downstream inference never sees more frames than were asked for.
func (s *Sampler) bruteForce(req Request) []video.Frame {
	if req.Source == nil {
		return nil
	}
	if err := req.Source.Reset(); err != nil {
		return nil
	}

	var decoded []video.Frame
	failures := 0
	for idx := 0; idx < s.cfg.MaxBruteForceFrames; idx++ {
		img, err := req.Source.ReadNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			failures++
			if failures > s.cfg.MaxConsecutiveFailures {
				break
			}
			continue
		}
		failures = 0
		decoded = append(decoded, video.Frame{Index: idx, Image: img})
	}
	return coverTargets(decoded, req.Targets)
}

// coverTargets selects, for each target index, the nearest decoded frame not
// already claimed by an earlier target. Decoded frames arrive in ascending
// index order; the output never exceeds the target count.
func coverTargets(decoded []video.Frame, targets []int) []video.Frame {
	if len(decoded) == 0 {
		return nil
	}
	used := make(map[int]bool, len(targets))
	var frames []video.Frame
	for _, want := range targets {
		j := sort.Search(len(decoded), func(i int) bool { return decoded[i].Index >= want })
		best := -1
		for _, cand := range []int{j - 1, j} {
			if cand < 0 || cand >= len(decoded) || used[cand] {
				continue
			}
			if best == -1 || absInt(decoded[cand].Index-want) < absInt(decoded[best].Index-want) {
				best = cand
			}
		}
		if best == -1 {
			continue
		}
		used[best] = true
		frames = append(frames, decoded[best])
	}
	return frames
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// accept normalizes one extracted frame: upright orientation for portrait
// video, then bounded downscale. This runs exactly once per frame.
func (s *Sampler) accept(req Request, img image.Image) image.Image {
	if req.Portrait {
		img = video.Rotate90(img)
	}
	return video.DownscaleToFit(img, s.cfg.MaxWidth, s.cfg.MaxHeight)
}
