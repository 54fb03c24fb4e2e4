package dto

import (
	"time"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

// CreateExamRequest captures exam creation payload. An exam targets at most
// one taxonomy level: setting two or more of the five reference ids is a
// validation error.
type CreateExamRequest struct {
	Title           string            `json:"title" validate:"required"`
	Description     *string           `json:"description,omitempty"`
	StartDatetime   time.Time         `json:"start_datetime" validate:"required"`
	EndDatetime     *time.Time        `json:"end_datetime,omitempty"`
	DurationMinutes int               `json:"duration_minutes" validate:"required,gt=0"`
	MaxMarks        float64           `json:"max_marks" validate:"required,gt=0"`
	MaxQuestions    int               `json:"max_questions" validate:"gte=0"`
	Status          models.ExamStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	CourseID        *int64            `json:"course_id,omitempty" validate:"omitempty,gt=0"`
	ClassID         *int64            `json:"class_id,omitempty" validate:"omitempty,gt=0"`
	SubjectID       *int64            `json:"subject_id,omitempty" validate:"omitempty,gt=0"`
	ChapterID       *int64            `json:"chapter_id,omitempty" validate:"omitempty,gt=0"`
	TopicID         *int64            `json:"topic_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateExamRequest modifies exam fields. A patch naming any reference id
// replaces the exam's reference outright, under the same at-most-one rule.
type UpdateExamRequest struct {
	Title           *string            `json:"title,omitempty" validate:"omitempty,min=1"`
	Description     *string            `json:"description,omitempty"`
	StartDatetime   *time.Time         `json:"start_datetime,omitempty"`
	EndDatetime     *time.Time         `json:"end_datetime,omitempty"`
	DurationMinutes *int               `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	MaxMarks        *float64           `json:"max_marks,omitempty" validate:"omitempty,gt=0"`
	MaxQuestions    *int               `json:"max_questions,omitempty" validate:"omitempty,gte=0"`
	Status          *models.ExamStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	CourseID        *int64             `json:"course_id,omitempty" validate:"omitempty,gt=0"`
	ClassID         *int64             `json:"class_id,omitempty" validate:"omitempty,gt=0"`
	SubjectID       *int64             `json:"subject_id,omitempty" validate:"omitempty,gt=0"`
	ChapterID       *int64             `json:"chapter_id,omitempty" validate:"omitempty,gt=0"`
	TopicID         *int64             `json:"topic_id,omitempty" validate:"omitempty,gt=0"`
}

// ExamItem is an exam list entry with its resolved ancestry.
type ExamItem struct {
	models.Exam
	Lineage Lineage `json:"lineage"`
}
