package sampler

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"squatanalyzer/internal/video"
)

// seekStrategy jump-seeks to each target index. Cheap, but some containers
// do not support reliable random seeking.
type seekStrategy struct{}

func (seekStrategy) Name() string { return "keyframe-seek" }

func (seekStrategy) Sample(req Request) ([]video.Frame, error) {
	if req.Source == nil {
		return nil, errors.New("no decode source")
	}
	var frames []video.Frame
	for _, idx := range req.Targets {
		img, err := req.Source.ReadFrameAt(idx)
		if err != nil {
			if errors.Is(err, video.ErrSeekUnsupported) {
				return frames, err
			}
			continue
		}
		frames = append(frames, video.Frame{Index: idx, Image: img})
	}
	return frames, nil
}

// sequentialStrategy decodes every frame in order from the start, keeping
// only the targeted indices. Robust to seek-unsupported streams at
// O(frame count) cost.
type sequentialStrategy struct {
	maxFailures int
}

func (sequentialStrategy) Name() string { return "sequential" }

func (s sequentialStrategy) Sample(req Request) ([]video.Frame, error) {
	if req.Source == nil {
		return nil, errors.New("no decode source")
	}
	if err := req.Source.Reset(); err != nil {
		return nil, fmt.Errorf("reset source: %w", err)
	}

	wanted := make(map[int]bool, len(req.Targets))
	last := 0
	for _, idx := range req.Targets {
		wanted[idx] = true
		if idx > last {
			last = idx
		}
	}

	var frames []video.Frame
	failures := 0
	for idx := 0; idx <= last; idx++ {
		img, err := req.Source.ReadNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			failures++
			if failures > s.maxFailures {
				return frames, fmt.Errorf("aborting after %d consecutive decode failures", failures)
			}
			continue
		}
		failures = 0
		if wanted[idx] {
			frames = append(frames, video.Frame{Index: idx, Image: img})
		}
	}
	return frames, nil
}

// transcodeStrategy shells the video out to a re-encode pass that dumps
// frames at the reduced target rate into a scratch directory, then loads
// them back. Last resort for containers the decoder cannot seek or read.
type transcodeStrategy struct{}

func (transcodeStrategy) Name() string { return "transcode" }

func (transcodeStrategy) Sample(req Request) ([]video.Frame, error) {
	return dumpAndLoad(req, "transcode", video.DumpFrames)
}

// tolerantStrategy is the alternate decode backend: a direct tolerant
// ffmpeg invocation that ignores demuxer errors.
type tolerantStrategy struct{}

func (tolerantStrategy) Name() string { return "tolerant-backend" }

func (tolerantStrategy) Sample(req Request) ([]video.Frame, error) {
	return dumpAndLoad(req, "tolerant", video.DumpFramesTolerant)
}

func dumpAndLoad(req Request, subdir string, dump func(in, dir string, fps float64) error) ([]video.Frame, error) {
	if req.Path == "" || req.ScratchDir == "" {
		return nil, errors.New("no scratch path configured")
	}
	fps := req.SampleFPS
	if fps <= 0 {
		fps = 1
	}
	dir := filepath.Join(req.ScratchDir, subdir)
	if err := dump(req.Path, dir, fps); err != nil {
		return nil, err
	}
	images, err := video.LoadFrameDir(dir)
	if err != nil {
		return nil, err
	}

	// Dumped frames arrive at the reduced rate; map the i-th dump onto the
	// i-th target index so downstream timestamps stay consistent.
	var frames []video.Frame
	for i, img := range images {
		if i >= len(req.Targets) {
			break
		}
		frames = append(frames, video.Frame{Index: req.Targets[i], Image: img})
	}
	return frames, nil
}
