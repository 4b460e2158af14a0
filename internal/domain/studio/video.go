package studio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the lifecycle state shared by a video and each of its sub-pipelines.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InFlight reports whether the external pipeline still owes an update.
func (s Status) InFlight() bool {
	return s == StatusPending || s == StatusProcessing
}

func rank(s Status) int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether from -> to respects the forward-only lifecycle
// pending -> processing -> {completed | failed}. Repeating a state is allowed.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	return rank(to) > rank(from)
}

// Video is one studio video-generation job. Rows are written by the external
// generation pipeline; this service only reads them and deletes whole rows.
type Video struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Prompt string    `gorm:"column:prompt" json:"prompt,omitempty"`
	Status Status    `gorm:"column:status;not null;index" json:"status"`

	GenerationStep   *string `gorm:"column:generation_step" json:"generation_step,omitempty"`
	CurrentExtension *int    `gorm:"column:current_extension" json:"current_extension,omitempty"`
	TotalExtensions  *int    `gorm:"column:total_extensions" json:"total_extensions,omitempty"`

	VoiceStatus     *Status `gorm:"column:voice_status" json:"voice_status,omitempty"`
	AmbientStatus   *Status `gorm:"column:ambient_status" json:"ambient_status,omitempty"`
	ComposingStatus *Status `gorm:"column:composing_status" json:"composing_status,omitempty"`

	VideoURL      *string `gorm:"column:video_url" json:"video_url,omitempty"`
	FinalVideoURL *string `gorm:"column:final_video_url" json:"final_video_url,omitempty"`
	ErrorMessage  *string `gorm:"column:error_message" json:"error_message,omitempty"`
	Cost          float64 `gorm:"column:cost;not null;default:0" json:"cost"`

	Settings datatypes.JSON `gorm:"column:settings" json:"settings,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Video) TableName() string { return "studio_video" }

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Step decodes the raw generation step for this video.
func (v *Video) Step() Step {
	if v == nil {
		return ParseStep(nil, nil)
	}
	return ParseStep(v.GenerationStep, v.TotalExtensions)
}

// Validate checks the invariants a well-formed row must hold.
func (v *Video) Validate() error {
	if v == nil {
		return fmt.Errorf("nil video")
	}
	if !v.Status.Valid() {
		return fmt.Errorf("video %s: invalid status %q", v.ID, v.Status)
	}
	for name, sub := range map[string]*Status{
		"voice_status":     v.VoiceStatus,
		"ambient_status":   v.AmbientStatus,
		"composing_status": v.ComposingStatus,
	} {
		if sub != nil && !sub.Valid() {
			return fmt.Errorf("video %s: invalid %s %q", v.ID, name, *sub)
		}
	}
	if v.CurrentExtension != nil && v.TotalExtensions != nil && *v.CurrentExtension > *v.TotalExtensions {
		return fmt.Errorf("video %s: current_extension %d exceeds total_extensions %d", v.ID, *v.CurrentExtension, *v.TotalExtensions)
	}
	if v.ErrorMessage != nil && *v.ErrorMessage != "" && v.Status != StatusFailed {
		return fmt.Errorf("video %s: error_message set on %s video", v.ID, v.Status)
	}
	return nil
}

// AnyInFlight reports whether at least one video is pending or processing.
func AnyInFlight(videos []*Video) bool {
	for _, v := range videos {
		if v != nil && v.Status.InFlight() {
			return true
		}
	}
	return false
}
