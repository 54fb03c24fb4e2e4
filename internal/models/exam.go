package models

import "time"

// ExamStatus is the administrative active flag, distinct from a student's
// attempt status.
type ExamStatus string

const (
	ExamStatusActive   ExamStatus = "active"
	ExamStatusInactive ExamStatus = "inactive"
)

// CourseRef is the embedded shape of a course inside an exam record.
type CourseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Exam is scheduled against at most one taxonomy level: exactly one of
// CourseID, ClassID, SubjectID, ChapterID and TopicID may be set.
type Exam struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     *string     `json:"description,omitempty"`
	StartDatetime   time.Time   `json:"start_datetime"`
	EndDatetime     *time.Time  `json:"end_datetime,omitempty"`
	DurationMinutes int         `json:"duration_minutes"`
	MaxMarks        float64     `json:"max_marks"`
	MaxQuestions    int         `json:"max_questions"`
	Status          ExamStatus  `json:"status"`
	CourseID        *int64      `json:"course_id,omitempty"`
	ClassID         *int64      `json:"class_id,omitempty"`
	SubjectID       *int64      `json:"subject_id,omitempty"`
	ChapterID       *int64      `json:"chapter_id,omitempty"`
	TopicID         *int64      `json:"topic_id,omitempty"`
	Course          *CourseRef  `json:"course,omitempty"`
	Class           *ClassRef   `json:"class_,omitempty"`
	Subject         *SubjectRef `json:"subject,omitempty"`
	Chapter         *ChapterRef `json:"chapter,omitempty"`
	Topic           *TopicRef   `json:"topic,omitempty"`
	CreatedBy       int64       `json:"created_by,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}
