package analysis

import (
	"squatanalyzer/internal/landmarks"
	"squatanalyzer/internal/measure"
	"squatanalyzer/internal/pose"
	"squatanalyzer/internal/tracker"
)

// FrameResult is one analyzed frame. The tracker appends status and scores
// after extraction; the struct is immutable afterward.
type FrameResult struct {
	Frame        int                  `json:"frame"`
	Timestamp    float64              `json:"timestamp"`
	Landmarks    *landmarks.Record    `json:"landmarks"`
	Measurements measure.Measurements `json:"measurements"`
	Advisory     *pose.Advisory       `json:"advisory,omitempty"`
	Status       tracker.StatusPair   `json:"status"`
	Scores       tracker.Scores       `json:"scores"`
}

// FinalScores is the aggregate quality assessment for the whole video.
type FinalScores struct {
	KneeDepthScore         float64 `json:"kneeDepthScore"`
	ShoulderAlignmentScore float64 `json:"shoulderAlignmentScore"`
	Overall                float64 `json:"overall"`
}

// Result is the sole externally observable output of one analysis run,
// assembled once and never mutated after return.
type Result struct {
	FPS                  float64       `json:"fps"`
	Frames               []FrameResult `json:"frames"`
	AnalysisDuration     float64       `json:"analysisDuration"`
	TotalFramesProcessed int           `json:"totalFramesProcessed"`
	OriginalDuration     float64       `json:"originalDuration"`
	OriginalFrameCount   int           `json:"originalFrameCount"`
	Scores               FinalScores   `json:"scores"`
}
