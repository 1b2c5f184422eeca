package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"squatanalyzer/internal/analysis"
	"squatanalyzer/internal/pose"

	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:      "squat-analyze",
		Usage:     "Analyze squat videos and print form scores as JSON",
		ArgsUsage: "VIDEO [VIDEO...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "oracle-url",
				Aliases: []string{"u"},
				Usage:   "Base URL of the pose inference sidecar",
				Value:   "http://localhost:8000",
			},
			&cli.StringFlag{
				Name:  "validator-url",
				Usage: "Optional base URL of a secondary pose validator",
			},
			&cli.Float64Flag{
				Name:  "visibility-threshold",
				Usage: "Minimum joint confidence for a landmark to count",
				Value: 0.5,
			},
			&cli.IntFlag{
				Name:    "max-frames",
				Aliases: []string{"n"},
				Usage:   "Maximum number of frames to process per video",
				Value:   20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.Exit("at least one video path is required", 2)
			}
			threshold := cmd.Float64("visibility-threshold")
			if threshold < 0 || threshold > 1 {
				return cli.Exit("visibility-threshold must be between 0 and 1", 2)
			}
			maxFrames := cmd.Int("max-frames")
			if maxFrames <= 0 {
				return cli.Exit("max-frames must be greater than zero", 2)
			}

			cfg := analysis.DefaultConfig()
			cfg.VisibilityThreshold = threshold
			cfg.MaxFramesToProcess = maxFrames

			var secondary pose.Oracle
			if url := cmd.String("validator-url"); url != "" {
				secondary = pose.NewClient(url, "/validate_pose")
			}
			adapter := pose.NewAdapter(
				pose.NewClient(cmd.String("oracle-url"), "/detect_pose"),
				secondary,
			)
			pipeline := analysis.New(cfg, adapter)

			return analyzeAll(ctx, pipeline, cmd.Args().Slice())
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyzeAll(ctx context.Context, pipeline *analysis.Pipeline, paths []string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, path := range paths {
		if !isVideoFile(path) {
			return fmt.Errorf("unsupported video file: %s", path)
		}
		log.Printf("Analyzing %s", path)

		result, err := pipeline.Analyze(ctx, path)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", filepath.Base(path), err)
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return nil
}

func isVideoFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mkv", ".avi", ".webm":
		return true
	default:
		return false
	}
}
