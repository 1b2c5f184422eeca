package video

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DumpFrames re-encodes the video into individual JPEG frames at the target
// rate under dir. This is the scratch-directory extraction tier for
// containers the decoder cannot seek or read sequentially.
func DumpFrames(inputPath, dir string, fps float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	fpsStr := strconv.FormatFloat(fps, 'f', -1, 64)
	outputPattern := filepath.Join(dir, "frame_%05d.jpg")

	return ffmpeg.
		Input(inputPath).
		Filter("fps", ffmpeg.Args{fpsStr}).
		Output(outputPattern, ffmpeg.KwArgs{"qscale:v": 2}).
		OverWriteOutput().
		Silent(true).
		Run()
}

// DumpFramesTolerant is the alternate decode backend: a direct ffmpeg
// invocation with error-tolerant demuxer flags, used when the primary
// backend under-delivers on damaged containers.
func DumpFramesTolerant(inputPath, dir string, fps float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	outputPattern := filepath.Join(dir, "frame_%05d.jpg")
	cmd := exec.Command(bin,
		"-v", "error",
		"-err_detect", "ignore_err",
		"-fflags", "+genpts+discardcorrupt",
		"-i", inputPath,
		"-vf", "fps="+strconv.FormatFloat(fps, 'f', -1, 64),
		"-qscale:v", "2",
		"-y", outputPattern,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tolerant decode: %w", err)
	}
	return nil
}

// LoadFrameDir reads dumped frame_*.jpg files back in order.
func LoadFrameDir(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scratch dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".jpg") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var frames []image.Image
	for _, name := range names {
		img, err := decodeImageFile(filepath.Join(dir, name))
		if err != nil {
			// A single unreadable dump is partial data loss, not terminal.
			continue
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// DecodeStill treats the input file as a single still image. Success means
// the upload was an image rather than a corrupt video, and the pipeline can
// proceed with single-frame input.
func DecodeStill(path string) (image.Image, error) {
	return decodeImageFile(path)
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
