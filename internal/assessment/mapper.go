package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/frenchcercle/cercle/internal/models"
)

// FallbackFeedback is shown when the evaluator could not be used
const FallbackFeedback = "We encountered an error analyzing your text. Please try again later or contact our support."

var (
	ErrEmptyResponse   = errors.New("empty evaluator response")
	ErrLevelOutOfRange = errors.New("estimated level out of range")
	ErrConfidenceRange = errors.New("confidence out of range")
)

// Fallback returns the degraded result: lowest level, zero confidence
func Fallback() models.AssessmentResult {
	return models.AssessmentResult{
		Level:      models.LevelA1,
		Feedback:   FallbackFeedback,
		Confidence: 0,
	}
}

type rawResult struct {
	EstimatedLevel *string  `json:"estimatedLevel"`
	Feedback       *string  `json:"feedback"`
	Confidence     *float64 `json:"confidence"`
}

// MapResponse turns the evaluator JSON into an AssessmentResult. All three
// fields are required; the level must be one of A1-B2 and the confidence
// must lie in [0,1].
func MapResponse(raw json.RawMessage) (models.AssessmentResult, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return models.AssessmentResult{}, ErrEmptyResponse
	}

	var r rawResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.AssessmentResult{}, fmt.Errorf("failed to decode evaluator response: %w", err)
	}
	if r.EstimatedLevel == nil || r.Feedback == nil || r.Confidence == nil {
		return models.AssessmentResult{}, fmt.Errorf("evaluator response is missing fields")
	}

	level, err := models.ParseLevel(*r.EstimatedLevel)
	if err != nil {
		return models.AssessmentResult{}, fmt.Errorf("%w: %q", ErrLevelOutOfRange, *r.EstimatedLevel)
	}
	if *r.Confidence < 0 || *r.Confidence > 1 {
		return models.AssessmentResult{}, fmt.Errorf("%w: %v", ErrConfidenceRange, *r.Confidence)
	}

	return models.AssessmentResult{
		Level:      level,
		Feedback:   *r.Feedback,
		Confidence: *r.Confidence,
	}, nil
}
