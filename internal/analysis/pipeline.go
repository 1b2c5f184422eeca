// Package analysis wires the metadata resolver, frame sampler, pose oracle,
// measurement extractor and score tracker into the video analysis pipeline.
package analysis

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"squatanalyzer/internal/measure"
	"squatanalyzer/internal/pose"
	"squatanalyzer/internal/sampler"
	"squatanalyzer/internal/timeline"
	"squatanalyzer/internal/tracker"
	"squatanalyzer/internal/video"
	"squatanalyzer/internal/videometa"
)

// SourceOpener builds a decode source for a video path with resolved
// properties. Injectable for tests.
type SourceOpener func(path string, props videometa.Properties) video.Source

// Pipeline runs one full analysis per call. Safe for concurrent calls: all
// per-run state is local.
type Pipeline struct {
	cfg       Config
	resolver  *videometa.Resolver
	sampler   *sampler.Sampler
	adapter   *pose.Adapter
	extractor *measure.Extractor
	open      SourceOpener
}

// New builds the production pipeline around the given pose adapter.
func New(cfg Config, adapter *pose.Adapter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		resolver:  videometa.NewResolver(),
		sampler:   sampler.New(cfg.Sampler),
		adapter:   adapter,
		extractor: measure.NewExtractor(cfg.VisibilityThreshold),
		open: func(path string, props videometa.Properties) video.Source {
			return video.NewFFmpegSource(path, props.Width, props.Height, props.FPS)
		},
	}
}

// NewWithDependencies injects resolver, sampler and source opener, for tests.
func NewWithDependencies(cfg Config, resolver *videometa.Resolver, smp *sampler.Sampler, adapter *pose.Adapter, open SourceOpener) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		resolver:  resolver,
		sampler:   smp,
		adapter:   adapter,
		extractor: measure.NewExtractor(cfg.VisibilityThreshold),
		open:      open,
	}
}

// Analyze runs the full pipeline on one materialized video file.
func (p *Pipeline) Analyze(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	props := p.resolver.Resolve(path, nil)
	log.Printf("analysis: resolved %s: fps=%.1f frames=%d duration=%.1fs portrait=%v (%s)",
		path, props.FPS, props.FrameCount, props.DurationSeconds, props.IsPortrait, props.Confidence)

	targets := p.targetIndices(props)

	scratch, err := os.MkdirTemp("", "squat-frames-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			// Cleanup failure never surfaces as an analysis error.
			log.Printf("analysis: scratch cleanup failed: %v", err)
		}
	}()

	src := p.open(path, props)
	defer src.Close()

	sampleFPS := props.FPS
	if props.DurationSeconds > 0 {
		sampleFPS = float64(len(targets)) / props.DurationSeconds
	}

	frames, err := p.sampler.Sample(sampler.Request{
		Source:     src,
		Path:       path,
		ScratchDir: scratch,
		Targets:    targets,
		SampleFPS:  sampleFPS,
		Portrait:   props.IsPortrait,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	log.Printf("analysis: extracted %d/%d frames", len(frames), len(targets))

	results := p.measureFrames(ctx, frames, props.FPS)
	p.reconcileTimestamps(results, props)
	finals := p.trackScores(results)

	return &Result{
		FPS:                  props.FPS,
		Frames:               results,
		AnalysisDuration:     time.Since(start).Seconds(),
		TotalFramesProcessed: len(results),
		OriginalDuration:     props.DurationSeconds,
		OriginalFrameCount:   props.FrameCount,
		Scores:               finals,
	}, nil
}

// targetIndices picks the frame indices to sample, balancing the processing
// budget against temporal resolution.
func (p *Pipeline) targetIndices(props videometa.Properties) []int {
	budget := p.cfg.TargetProcessingSeconds / p.cfg.EstimatedSecondsPerFrame
	skip := 1
	if budget > 0 {
		skip = int(float64(props.FrameCount) / budget)
	}
	if skip < 1 {
		skip = 1
	}
	if skip > p.cfg.MaxFrameSkip {
		skip = p.cfg.MaxFrameSkip
	}

	var targets []int
	for idx := 0; idx < props.FrameCount && len(targets) < p.cfg.MaxFramesToProcess; idx += skip {
		targets = append(targets, idx)
	}
	return targets
}

// measureFrames runs pose inference and measurement extraction over the
// sampled frames. No frame depends on another, so the work fans out across
// a bounded worker pool; the oracle sidecar synchronizes its own sessions.
func (p *Pipeline) measureFrames(ctx context.Context, frames []video.Frame, fps float64) []FrameResult {
	results := make([]FrameResult, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.workers())
	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			record, advisory := p.adapter.Detect(gctx, frame.Image)
			results[i] = FrameResult{
				Frame:        frame.Index,
				Timestamp:    float64(frame.Index) / fps,
				Landmarks:    record,
				Measurements: p.extractor.Extract(record),
				Advisory:     advisory,
			}
			return nil
		})
	}
	// Workers never return errors: oracle failures degrade to frames
	// without landmarks.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Frame < results[j].Frame })
	return results
}

// reconcileTimestamps applies the one-shot global drift correction against
// the independently resolved duration. Fabricated file-size durations are
// never used as reconciliation ground truth.
func (p *Pipeline) reconcileTimestamps(results []FrameResult, props videometa.Properties) {
	if props.DurationEstimated || len(results) == 0 {
		return
	}
	timestamps := make([]float64, len(results))
	for i := range results {
		timestamps[i] = results[i].Timestamp
	}
	timestamps = timeline.Reconcile(timestamps, props.DurationSeconds)
	for i := range results {
		results[i].Timestamp = timestamps[i]
	}
}

// trackScores runs the inherently sequential phase reduction and appends
// status and scores to every frame.
func (p *Pipeline) trackScores(results []FrameResult) FinalScores {
	classifier := tracker.NewClassifier(p.cfg.PhaseHysteresis)
	tr := tracker.New(p.cfg.Tracker)

	for i := range results {
		descending := classifier.Observe(results[i].Measurements.KneeAngle)
		assessment := tr.Observe(tracker.FrameInput{
			Index:        results[i].Frame,
			Measurements: results[i].Measurements,
			Descending:   descending,
		})
		results[i].Status = assessment.Status
		results[i].Scores = assessment.Scores
	}

	final := tr.Final()
	return FinalScores{
		KneeDepthScore:         final.KneeDepth,
		ShoulderAlignmentScore: final.ShoulderAlignment,
		Overall:                final.Overall,
	}
}
