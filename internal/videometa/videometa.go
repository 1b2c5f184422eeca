// Package videometa reconciles video duration, frame count and fps from
// multiple unreliable sources into one authoritative set of properties.
package videometa

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	// Sentinel fps value some containers report for invalid streams.
	sentinelFPS = 1000
	maxValidFPS = 120
	defaultFPS  = 30

	// Practical frame count window bounding later processing cost.
	minFrameCount = 10
	maxFrameCount = 1500

	// Rough footage-per-megabyte floor used only when every other duration
	// source fails.
	secondsPerMB = 8
)

// Confidence records which source tier produced the final properties.
type Confidence int

const (
	// Probed means the external metadata probe supplied the values.
	Probed Confidence = iota
	// Derived means values were cross-derived or taken from decoder metadata.
	Derived
)

// Properties is the authoritative metadata for one video, computed once and
// read-only thereafter.
type Properties struct {
	DurationSeconds float64    `json:"duration_seconds"`
	FrameCount      int        `json:"frame_count"`
	FPS             float64    `json:"fps"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	IsPortrait      bool       `json:"is_portrait"`
	Confidence      Confidence `json:"-"`

	// DurationEstimated marks a file-size-derived duration that must only
	// steer sampling density, never timestamp reconciliation.
	DurationEstimated bool `json:"-"`
}

// DecoderInfo is raw container-level metadata from a decoder, known to be
// unreliable for some codecs.
type DecoderInfo struct {
	FPS             float64
	FrameCount      int
	DurationSeconds float64
	Width           int
	Height          int
}

// Prober runs an external metadata probe and returns its raw JSON output.
type Prober func(path string) (string, error)

// Resolver determines trustworthy video properties. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	probe Prober
}

// NewResolver returns a resolver backed by ffprobe.
func NewResolver() *Resolver {
	return &Resolver{probe: func(path string) (string, error) {
		return ffmpeg.Probe(path)
	}}
}

// NewResolverWithProber returns a resolver with an injected probe, for tests
// and alternate probe tools.
func NewResolverWithProber(p Prober) *Resolver {
	return &Resolver{probe: p}
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NBFrames     string `json:"nb_frames"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Resolve never fails: it returns best-effort properties for path, consulting
// the probe first, then decoder metadata, then file size.
func (r *Resolver) Resolve(path string, decoder *DecoderInfo) Properties {
	props, ok := r.fromProbe(path)
	if !ok {
		props = fromDecoder(decoder)
	}

	if props.Width == 0 && decoder != nil {
		props.Width = decoder.Width
		props.Height = decoder.Height
	}
	props.IsPortrait = props.Height > props.Width

	if props.DurationSeconds <= 0 {
		if decoder != nil && decoder.FrameCount > 0 && validFPS(decoder.FPS) {
			props.DurationSeconds = float64(decoder.FrameCount) / decoder.FPS
		} else if size := fileSizeMB(path); size > 0 {
			props.DurationSeconds = math.Max(1, size*secondsPerMB)
			props.DurationEstimated = true
			log.Printf("videometa: estimating duration from file size: %.1fs", props.DurationSeconds)
		}
	}

	if props.FPS <= 0 {
		props.FPS = defaultFPS
	}
	if props.FrameCount <= 0 && props.DurationSeconds > 0 {
		props.FrameCount = int(props.DurationSeconds * props.FPS)
	}

	props.FrameCount = clampFrameCount(props.FrameCount)
	return props
}

// fromProbe parses external probe output, cross-deriving whichever of the
// (duration, frame count, fps) triple the probe omitted.
func (r *Resolver) fromProbe(path string) (Properties, bool) {
	raw, err := r.probe(path)
	if err != nil {
		log.Printf("videometa: probe failed, falling back to decoder metadata: %v", err)
		return Properties{}, false
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("videometa: unparsable probe output: %v", err)
		return Properties{}, false
	}

	props := Properties{Confidence: Probed}
	props.DurationSeconds = parseProbeFloat(out.Format.Duration)

	for _, s := range out.Streams {
		if s.CodecType != "" && s.CodecType != "video" {
			continue
		}
		props.Width = s.Width
		props.Height = s.Height
		props.FPS = parseFraction(s.AvgFrameRate)
		if props.FPS <= 0 {
			props.FPS = parseFraction(s.RFrameRate)
		}
		props.FrameCount = int(parseProbeFloat(s.NBFrames))
		break
	}

	if !validFPS(props.FPS) {
		props.FPS = 0
	}

	switch {
	case props.FrameCount <= 0 && props.DurationSeconds > 0 && props.FPS > 0:
		props.FrameCount = int(props.DurationSeconds * props.FPS)
	case props.DurationSeconds <= 0 && props.FrameCount > 0 && props.FPS > 0:
		props.DurationSeconds = float64(props.FrameCount) / props.FPS
	case props.FPS <= 0 && props.DurationSeconds > 0 && props.FrameCount > 0:
		props.FPS = float64(props.FrameCount) / props.DurationSeconds
		if !validFPS(props.FPS) {
			props.FPS = defaultFPS
		}
	}

	if props.DurationSeconds <= 0 && props.FrameCount <= 0 {
		return Properties{}, false
	}
	return props, true
}

// fromDecoder validates raw decoder metadata, rejecting the known-bad fps
// and frame count shapes.
func fromDecoder(info *DecoderInfo) Properties {
	props := Properties{Confidence: Derived}
	if info == nil {
		return props
	}

	props.Width = info.Width
	props.Height = info.Height
	props.DurationSeconds = info.DurationSeconds

	fps := info.FPS
	if !validFPS(fps) {
		if info.DurationSeconds > 0 && info.FrameCount > 0 && info.FrameCount < 100000 {
			recalc := float64(info.FrameCount) / info.DurationSeconds
			if recalc > 0 && recalc <= maxValidFPS {
				fps = math.Round(recalc)
			} else {
				fps = defaultFPS
			}
		} else {
			fps = defaultFPS
		}
		log.Printf("videometa: invalid decoder fps %.0f, using %.0f", info.FPS, fps)
	}
	props.FPS = fps

	frameCount := info.FrameCount
	expected := 0
	if info.DurationSeconds > 0 && fps > 0 {
		expected = int(info.DurationSeconds * fps)
	}
	invalid := frameCount < 0 || (info.DurationSeconds > 0.5 && frameCount <= 1)
	mismatch := expected > 0 && math.Abs(float64(frameCount-expected)) > float64(expected)*0.5
	if invalid || mismatch {
		if expected > 0 {
			frameCount = expected
		} else {
			frameCount = defaultFPS
		}
		log.Printf("videometa: rejecting decoder frame count %d, using %d", info.FrameCount, frameCount)
	}
	props.FrameCount = frameCount

	return props
}

func validFPS(fps float64) bool {
	return fps > 0 && fps <= maxValidFPS && fps != sentinelFPS
}

func clampFrameCount(n int) int {
	if n < minFrameCount {
		return minFrameCount
	}
	if n > maxFrameCount {
		return maxFrameCount
	}
	return n
}

// parseProbeFloat treats "N/A" and other unparsable probe fields as absent.
func parseProbeFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseFraction parses frame rates of the form "30/1" or "30000/1001".
func parseFraction(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || s == "0/0" {
		return 0
	}
	num, den := 0.0, 1.0
	if i := strings.IndexByte(s, '/'); i >= 0 {
		var err1, err2 error
		num, err1 = strconv.ParseFloat(s[:i], 64)
		den, err2 = strconv.ParseFloat(s[i+1:], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0
		}
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return num / den
}

func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}

// String describes the confidence tier for logs.
func (c Confidence) String() string {
	if c == Probed {
		return "probed"
	}
	return "derived"
}
