package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

type TourLesson struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	StepCount   int       `json:"step_count" db:"step_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type TourStep struct {
	ID          uuid.UUID `json:"id" db:"id"`
	LessonID    uuid.UUID `json:"lesson_id" db:"lesson_id"`
	Position    int       `json:"position" db:"position"`
	Title       string    `json:"title" db:"title"`
	Instruction string    `json:"instruction" db:"instruction"`
	CodeSample  string    `json:"code_sample" db:"code_sample"`
}

type TourLessonDetail struct {
	TourLesson
	Steps []TourStep `json:"steps"`
}

// StepProgress is one user's state for one step.
type StepProgress struct {
	StepID      uuid.UUID      `json:"step_id" db:"step_id"`
	LessonSlug  string         `json:"lesson_slug" db:"lesson_slug"`
	Status      ProgressStatus `json:"status" db:"status"`
	CompletedAt *time.Time     `json:"completed_at" db:"completed_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

type LessonProgress struct {
	LessonSlug     string `json:"lesson_slug"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
	Completed      bool   `json:"completed"`
}

type ProgressOverview struct {
	Steps   []StepProgress   `json:"steps"`
	Lessons []LessonProgress `json:"lessons"`
}

type UpdateProgressRequest struct {
	StepID string         `json:"step_id" validate:"required,uuid"`
	Status ProgressStatus `json:"status" validate:"required,oneof=in_progress completed"`
}

func (r *UpdateProgressRequest) Validate() error {
	return validation.Struct(r)
}

// SyncProgressRequest carries steps completed locally while signed out.
type SyncProgressRequest struct {
	StepIDs []string `json:"step_ids" validate:"max=500,dive,uuid"`
}

func (r *SyncProgressRequest) Validate() error {
	return validation.Struct(r)
}
