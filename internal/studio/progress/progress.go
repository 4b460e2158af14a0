// Package progress turns pipeline state into short display labels. Every
// function here is pure; adding a new pipeline step only touches this file
// and the step decoder in the domain package.
package progress

import (
	"fmt"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

const (
	LabelGeneratingBase = "generating base video"
	LabelCompleted      = "completed"
	LabelProcessing     = "processing"

	LabelWaiting    = "waiting"
	LabelInProgress = "in progress"
	LabelDone       = "done"
	LabelFailed     = "failed"
	LabelNotStarted = "not started"
)

// PhaseLabel maps a raw generation step and extension count to a phase label.
func PhaseLabel(generationStep *string, totalExtensions *int) string {
	return StepLabel(studio.ParseStep(generationStep, totalExtensions))
}

// StepLabel renders an already decoded step.
func StepLabel(st studio.Step) string {
	switch st.Kind {
	case studio.StepBase:
		return LabelGeneratingBase
	case studio.StepPreparingExtension:
		return "preparing extension " + ordinal(st)
	case studio.StepExtending:
		return "extending video " + ordinal(st)
	case studio.StepCompleted:
		return LabelCompleted
	default:
		return LabelProcessing
	}
}

func ordinal(st studio.Step) string {
	if st.Total > 0 {
		return fmt.Sprintf("%d of %d", st.Current, st.Total)
	}
	return fmt.Sprintf("%d", st.Current)
}

// SubStatusLabel maps a voice, ambient or composing status to a label.
func SubStatusLabel(s *studio.Status) string {
	if s == nil {
		return LabelNotStarted
	}
	switch *s {
	case studio.StatusPending:
		return LabelWaiting
	case studio.StatusProcessing:
		return LabelInProgress
	case studio.StatusCompleted:
		return LabelDone
	case studio.StatusFailed:
		return LabelFailed
	default:
		return LabelNotStarted
	}
}

// Report is the derived, display-ready progress of one video.
type Report struct {
	Status    string      `json:"status"`
	Phase     string      `json:"phase"`
	Step      studio.Step `json:"step"`
	Voice     string      `json:"voice"`
	Ambient   string      `json:"ambient"`
	Composing string      `json:"composing"`
	Active    bool        `json:"active"`
}

// Describe derives the full report for v. The phase is kept for terminal
// videos so history shows where the pipeline stopped.
func Describe(v *studio.Video) Report {
	if v == nil {
		return Report{Phase: LabelProcessing, Voice: LabelNotStarted, Ambient: LabelNotStarted, Composing: LabelNotStarted}
	}
	st := v.Step()
	status := v.Status
	return Report{
		Status:    SubStatusLabel(&status),
		Phase:     StepLabel(st),
		Step:      st,
		Voice:     SubStatusLabel(v.VoiceStatus),
		Ambient:   SubStatusLabel(v.AmbientStatus),
		Composing: SubStatusLabel(v.ComposingStatus),
		Active:    v.Status.InFlight(),
	}
}
