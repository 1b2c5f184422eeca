package video

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegSource decodes frames through ffmpeg. Random access spawns one short
// ffmpeg process per frame; sequential access holds a single long-lived
// process streaming raw RGB frames over a pipe.
type FFmpegSource struct {
	path   string
	fps    float64
	width  int
	height int

	seq     *exec.Cmd
	seqPipe io.ReadCloser
	seqBuf  []byte
}

// NewFFmpegSource opens path for decoding. Width and height must be the
// stream's resolved dimensions; fps is used to translate frame indices into
// seek timestamps.
func NewFFmpegSource(path string, width, height int, fps float64) *FFmpegSource {
	if width <= 0 || height <= 0 {
		// Unknown dimensions: decode through a fixed scale so the raw frame
		// size is still deterministic.
		width, height = 640, 360
	}
	if fps <= 0 {
		fps = 30
	}
	return &FFmpegSource{path: path, fps: fps, width: width, height: height}
}

// ReadFrameAt seeks to the frame index and decodes it as a single JPEG.
func (s *FFmpegSource) ReadFrameAt(index int) (image.Image, error) {
	ts := float64(index) / s.fps
	buf := bytes.NewBuffer(nil)
	err := ffmpeg.Input(s.path, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.3f", ts)}).
		Output("pipe:", ffmpeg.KwArgs{
			"vframes": 1,
			"format":  "image2",
			"vcodec":  "mjpeg",
		}).
		Silent(true).
		WithOutput(buf).
		Run()
	if err != nil {
		return nil, fmt.Errorf("seek frame %d: %w", index, err)
	}
	img, err := jpeg.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", index, err)
	}
	return img, nil
}

// ReadNext returns the next frame of the sequential raw-RGB stream.
func (s *FFmpegSource) ReadNext() (image.Image, error) {
	if s.seq == nil {
		if err := s.startSequential(); err != nil {
			return nil, err
		}
	}
	if _, err := io.ReadFull(s.seqPipe, s.seqBuf); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	return rgbImage(s.seqBuf, s.width, s.height), nil
}

// Reset tears down and restarts the sequential stream.
func (s *FFmpegSource) Reset() error {
	s.stopSequential()
	return s.startSequential()
}

func (s *FFmpegSource) Close() error {
	s.stopSequential()
	return nil
}

func (s *FFmpegSource) startSequential() error {
	cmd := ffmpeg.Input(s.path).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", s.width, s.height)}).
		Output("pipe:", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
		}).
		Silent(true).
		Compile()

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("sequential decode pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start sequential decode: %w", err)
	}

	s.seq = cmd
	s.seqPipe = pipe
	s.seqBuf = make([]byte, s.width*s.height*3)
	return nil
}

func (s *FFmpegSource) stopSequential() {
	if s.seq == nil {
		return
	}
	_ = s.seqPipe.Close()
	if s.seq.Process != nil {
		_ = s.seq.Process.Kill()
	}
	_ = s.seq.Wait()
	s.seq = nil
	s.seqPipe = nil
}

// rgbImage wraps a packed RGB24 buffer into an RGBA image.
func rgbImage(raw []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = raw[i*3+0]
		img.Pix[i*4+1] = raw[i*3+1]
		img.Pix[i*4+2] = raw[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}
