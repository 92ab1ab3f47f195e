package answer

import (
	"errors"
	"strings"
	"time"
)

// Extraction is what the model sees in a set of screenshots.
// ProblemStatement is required; the rest may be empty.
type Extraction struct {
	ProblemStatement   string   `json:"problem_statement"`
	Context            string   `json:"context"`
	SuggestedResponses []string `json:"suggested_responses"`
	Reasoning          string   `json:"reasoning"`
}

func (e *Extraction) Validate() error {
	if len(strings.TrimSpace(e.ProblemStatement)) == 0 {
		return errors.New("problem_statement is required")
	}
	return nil
}

// Solution is the nested block of a solution or debug response.
// Code is required; it holds the code or the main answer.
type Solution struct {
	Code               string   `json:"code"`
	ProblemStatement   string   `json:"problem_statement,omitempty"`
	Context            string   `json:"context,omitempty"`
	SuggestedResponses []string `json:"suggested_responses,omitempty"`
	Reasoning          string   `json:"reasoning,omitempty"`
	Thoughts           []string `json:"thoughts,omitempty"`
	TimeComplexity     string   `json:"time_complexity,omitempty"`
	SpaceComplexity    string   `json:"space_complexity,omitempty"`
}

// SolutionEnvelope mirrors the {"solution": {...}} shape the model returns.
type SolutionEnvelope struct {
	Solution *Solution `json:"solution"`
}

func (e *SolutionEnvelope) Validate() error {
	if e.Solution == nil {
		return errors.New("solution block is required")
	}
	if len(strings.TrimSpace(e.Solution.Code)) == 0 {
		return errors.New("solution.code is required")
	}
	return nil
}

// Analysis is a freeform answer stamped with the time it was produced.
type Analysis struct {
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	UsedGrounding bool      `json:"used_grounding"`
}
