package models

import "time"

// CourseLevel mirrors the upstream difficulty enum.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Course can attach to any single taxonomy level; all four references are
// optional but at least one must be set.
type Course struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Duration    int         `json:"duration,omitempty"`
	IsActive    bool        `json:"is_active"`
	Level       CourseLevel `json:"level"`
	StreamID    *int64      `json:"stream_id,omitempty"`
	SubjectID   *int64      `json:"subject_id,omitempty"`
	ChapterID   *int64      `json:"chapter_id,omitempty"`
	TopicID     *int64      `json:"topic_id,omitempty"`
	Stream      *StreamRef  `json:"stream,omitempty"`
	Subject     *SubjectRef `json:"subject,omitempty"`
	Chapter     *ChapterRef `json:"chapter,omitempty"`
	Topic       *TopicRef   `json:"topic,omitempty"`
	CreatedBy   int64       `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}
