package profile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitdash/internal/forms"
)

type Step string

const (
	StepBasics     Step = "basics"
	StepGoals      Step = "goals"
	StepExperience Step = "experience"
	StepSchedule   Step = "schedule"
)

// Steps is the setup wizard order.
var Steps = []Step{StepBasics, StepGoals, StepExperience, StepSchedule}

var (
	ErrUnknownStep     = errors.New("unknown setup step")
	ErrStepOutOfOrder  = errors.New("previous setup steps are not done yet")
	ErrSetupIncomplete = errors.New("setup is not complete")
)

func ParseStep(s string) (Step, error) {
	for _, step := range Steps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// stepDone reports whether the step section is present and valid.
func stepDone(attrs Attributes, step Step) bool {
	var section any
	switch step {
	case StepBasics:
		if attrs.Basics == nil {
			return false
		}
		section = attrs.Basics
	case StepGoals:
		if attrs.Goals == nil {
			return false
		}
		section = attrs.Goals
	case StepExperience:
		if attrs.Experience == nil {
			return false
		}
		section = attrs.Experience
	case StepSchedule:
		if attrs.Schedule == nil {
			return false
		}
		section = attrs.Schedule
	default:
		return false
	}
	return forms.Validate(section) == nil
}

// NextStep is the first step that still needs input. ok is false once every
// step is done.
func NextStep(attrs Attributes) (_ Step, ok bool) {
	for _, step := range Steps {
		if !stepDone(attrs, step) {
			return step, true
		}
	}
	return "", false
}

// ApplyStep validates payload as the given step and returns attrs with that
// section replaced. Steps can be revisited, but not skipped.
func ApplyStep(attrs Attributes, step Step, payload json.RawMessage) (Attributes, error) {
	if step.index() < 0 {
		return attrs, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	if next, ok := NextStep(attrs); ok && step.index() > next.index() {
		return attrs, fmt.Errorf("%w: %s comes first", ErrStepOutOfOrder, next)
	}

	var err error
	switch step {
	case StepBasics:
		attrs.Basics, err = decodeStep[Basics](payload)
	case StepGoals:
		attrs.Goals, err = decodeStep[Goals](payload)
	case StepExperience:
		attrs.Experience, err = decodeStep[Experience](payload)
	case StepSchedule:
		attrs.Schedule, err = decodeStep[Schedule](payload)
	}
	return attrs, err
}

func decodeStep[T any](payload json.RawMessage) (*T, error) {
	var section T
	if err := json.Unmarshal(payload, &section); err != nil {
		return nil, fmt.Errorf("decode step: %w", err)
	}
	if err := forms.Validate(&section); err != nil {
		return nil, err
	}
	return &section, nil
}

// Complete marks the setup as done, once every step is.
func Complete(attrs Attributes) (Attributes, error) {
	if next, ok := NextStep(attrs); ok {
		return attrs, fmt.Errorf("%w: %s missing", ErrSetupIncomplete, next)
	}
	attrs.SetupCompleted = true
	return attrs, nil
}

// SetupStatus is what the wizard page renders from.
type SetupStatus struct {
	Steps      []Step      `json:"steps"`
	Done       []Step      `json:"done"`
	NextStep   Step        `json:"next_step,omitempty"`
	Completed  bool        `json:"completed"`
	Attributes *Attributes `json:"attributes"`
}

func Status(attrs Attributes) SetupStatus {
	status := SetupStatus{
		Steps:      Steps,
		Done:       []Step{},
		Completed:  attrs.SetupCompleted,
		Attributes: &attrs,
	}
	for _, step := range Steps {
		if stepDone(attrs, step) {
			status.Done = append(status.Done, step)
		}
	}
	if next, ok := NextStep(attrs); ok {
		status.NextStep = next
	}
	return status
}
