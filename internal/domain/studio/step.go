package studio

import (
	"strconv"
	"strings"
)

// StepKind is the decoded form of the pipeline's generation_step string.
type StepKind string

const (
	StepBase               StepKind = "base"
	StepPreparingExtension StepKind = "preparing_extension"
	StepExtending          StepKind = "extending"
	StepCompleted          StepKind = "completed"
	StepUnknown            StepKind = "unknown"
)

const (
	rawStepBase             = "base"
	rawStepCompleted        = "completed"
	prefixReadyForExtension = "ready_for_extension_"
	prefixExtending         = "extending_"
)

// Step is a structured pipeline position. Current and Total are zero when the
// pipeline did not report them.
type Step struct {
	Kind    StepKind `json:"kind"`
	Current int      `json:"current,omitempty"`
	Total   int      `json:"total,omitempty"`
	Raw     string   `json:"raw,omitempty"`
}

// ParseStep decodes the raw step name reported by the generation pipeline.
// Unrecognized names, and extension steps whose suffix is not a positive
// integer, decode to StepUnknown.
func ParseStep(raw *string, totalExtensions *int) Step {
	total := 0
	if totalExtensions != nil && *totalExtensions > 0 {
		total = *totalExtensions
	}
	if raw == nil {
		return Step{Kind: StepBase, Total: total}
	}
	name := strings.TrimSpace(*raw)
	st := Step{Raw: name, Total: total}

	switch {
	case name == "" || name == rawStepBase:
		st.Kind = StepBase
	case strings.HasPrefix(name, prefixReadyForExtension):
		st.Kind, st.Current = decodeOrdinal(StepPreparingExtension, strings.TrimPrefix(name, prefixReadyForExtension))
	case strings.HasPrefix(name, prefixExtending):
		st.Kind, st.Current = decodeOrdinal(StepExtending, strings.TrimPrefix(name, prefixExtending))
	case name == rawStepCompleted:
		st.Kind = StepCompleted
	default:
		st.Kind = StepUnknown
	}
	return st
}

func decodeOrdinal(kind StepKind, suffix string) (StepKind, int) {
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return StepUnknown, 0
	}
	return kind, n
}
