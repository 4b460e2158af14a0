// Package simulate stands in for the external generation pipeline in local
// development: it seeds jobs and walks in-flight ones forward one step at a time.
package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

// NewJob builds a pending job for owner with the given number of extensions.
func NewJob(owner uuid.UUID, prompt string, extensions int, now time.Time) *studio.Video {
	total := extensions
	return &studio.Video{
		ID:              uuid.New(),
		UserID:          owner,
		Prompt:          prompt,
		Status:          studio.StatusPending,
		TotalExtensions: &total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Seed builds count jobs spread across every lifecycle position, newest last.
func Seed(owner uuid.UUID, count int, rng *rand.Rand, now time.Time) []*studio.Video {
	out := make([]*studio.Video, 0, count)
	for i := 0; i < count; i++ {
		v := NewJob(owner, fmt.Sprintf("demo clip %d", i+1), 1+rng.Intn(3), now.Add(time.Duration(i)*time.Second))
		for steps := rng.Intn(10); steps > 0; steps-- {
			updates, ok := Advance(v)
			if !ok {
				break
			}
			apply(v, updates)
		}
		out = append(out, v)
	}
	return out
}

// Advance returns the column updates that move v one step forward, or false
// when v is terminal or the step would break the lifecycle.
func Advance(v *studio.Video) (map[string]interface{}, bool) {
	updates, ok := next(v)
	if !ok || Check(v, updates) != nil {
		return nil, false
	}
	return updates, true
}

func next(v *studio.Video) (map[string]interface{}, bool) {
	if v == nil || v.Status.Terminal() {
		return nil, false
	}
	total := 0
	if v.TotalExtensions != nil {
		total = *v.TotalExtensions
	}
	if v.Status == studio.StatusPending {
		return map[string]interface{}{
			"status":          studio.StatusProcessing,
			"generation_step": "base",
		}, true
	}

	st := v.Step()
	switch st.Kind {
	case studio.StepBase:
		if total == 0 {
			return composing(v), true
		}
		return map[string]interface{}{
			"generation_step": "ready_for_extension_1",
			"video_url":       fmt.Sprintf("gs://studio-media/%s/base.mp4", v.ID),
		}, true
	case studio.StepPreparingExtension:
		return map[string]interface{}{
			"generation_step":   fmt.Sprintf("extending_%d", st.Current),
			"current_extension": st.Current,
		}, true
	case studio.StepExtending:
		if st.Current < total {
			return map[string]interface{}{"generation_step": fmt.Sprintf("ready_for_extension_%d", st.Current+1)}, true
		}
		return composing(v), true
	default:
		return finish(v), true
	}
}

// composing runs the audio sub-pipelines one at a time before the final cut.
func composing(v *studio.Video) map[string]interface{} {
	for _, sub := range []struct {
		column string
		status *studio.Status
	}{
		{"voice_status", v.VoiceStatus},
		{"ambient_status", v.AmbientStatus},
		{"composing_status", v.ComposingStatus},
	} {
		switch {
		case sub.status == nil || *sub.status == studio.StatusPending:
			return map[string]interface{}{sub.column: studio.StatusProcessing}
		case *sub.status == studio.StatusProcessing:
			return map[string]interface{}{sub.column: studio.StatusCompleted}
		}
	}
	return finish(v)
}

func finish(v *studio.Video) map[string]interface{} {
	return map[string]interface{}{
		"status":          studio.StatusCompleted,
		"generation_step": "completed",
		"final_video_url": fmt.Sprintf("gs://studio-media/%s/final.mp4", v.ID),
	}
}

// Fail returns the updates that mark v failed with msg, or false when v has
// already finished.
func Fail(v *studio.Video, msg string) (map[string]interface{}, bool) {
	if v == nil || v.Status.Terminal() {
		return nil, false
	}
	updates := map[string]interface{}{
		"status":        studio.StatusFailed,
		"error_message": msg,
	}
	if Check(v, updates) != nil {
		return nil, false
	}
	return updates, true
}

// Check applies updates to a copy of v and verifies the result: every status
// moves forward only and the row stays valid.
func Check(v *studio.Video, updates map[string]interface{}) error {
	if v == nil {
		return fmt.Errorf("nil video")
	}
	after := *v
	apply(&after, updates)
	if !studio.CanTransition(v.Status, after.Status) {
		return fmt.Errorf("video %s: status %s -> %s not allowed", v.ID, v.Status, after.Status)
	}
	for _, sub := range []struct {
		name          string
		before, after *studio.Status
	}{
		{"voice_status", v.VoiceStatus, after.VoiceStatus},
		{"ambient_status", v.AmbientStatus, after.AmbientStatus},
		{"composing_status", v.ComposingStatus, after.ComposingStatus},
	} {
		if sub.after == nil {
			continue
		}
		from := studio.StatusPending
		if sub.before != nil {
			from = *sub.before
		}
		if !studio.CanTransition(from, *sub.after) {
			return fmt.Errorf("video %s: %s %s -> %s not allowed", v.ID, sub.name, from, *sub.after)
		}
	}
	return after.Validate()
}

func apply(v *studio.Video, updates map[string]interface{}) {
	for col, val := range updates {
		switch col {
		case "status":
			v.Status = val.(studio.Status)
		case "generation_step":
			s := val.(string)
			v.GenerationStep = &s
		case "current_extension":
			n := val.(int)
			v.CurrentExtension = &n
		case "video_url":
			s := val.(string)
			v.VideoURL = &s
		case "final_video_url":
			s := val.(string)
			v.FinalVideoURL = &s
		case "error_message":
			s := val.(string)
			v.ErrorMessage = &s
		case "voice_status":
			s := val.(studio.Status)
			v.VoiceStatus = &s
		case "ambient_status":
			s := val.(studio.Status)
			v.AmbientStatus = &s
		case "composing_status":
			s := val.(studio.Status)
			v.ComposingStatus = &s
		}
	}
}
