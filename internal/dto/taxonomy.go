package dto

import "github.com/sahajlabs/exam-admin-gateway/internal/models"

// CreateClassRequest captures class creation payload.
type CreateClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateClassRequest modifies class fields; nil fields are left untouched.
type UpdateClassRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateStreamRequest captures stream creation payload.
type CreateStreamRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ClassID     int64   `json:"class_id" validate:"required,gt=0"`
}

// UpdateStreamRequest modifies stream fields.
type UpdateStreamRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ClassID     *int64  `json:"class_id,omitempty" validate:"omitempty,gt=0"`
}

// CreateSubjectRequest captures subject creation payload. Code must be
// uppercase alphanumeric, e.g. "MATH101".
type CreateSubjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Code        string  `json:"code" validate:"required,min=2,max=20,alphanum,uppercase"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Credits     int     `json:"credits,omitempty" validate:"gte=0"`
	StreamID    int64   `json:"stream_id" validate:"required,gt=0"`
}

// UpdateSubjectRequest modifies subject fields.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Code        *string `json:"code,omitempty" validate:"omitempty,min=2,max=20,alphanum,uppercase"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Credits     *int    `json:"credits,omitempty" validate:"omitempty,gte=0"`
	StreamID    *int64  `json:"stream_id,omitempty" validate:"omitempty,gt=0"`
}

// CreateChapterRequest captures chapter creation payload. The chapter
// number orders chapters within a subject and must be unique there.
type CreateChapterRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	SubjectID     int64   `json:"subject_id" validate:"required,gt=0"`
	ChapterNumber int     `json:"chapter_number" validate:"required,gt=0"`
}

// UpdateChapterRequest modifies chapter fields.
type UpdateChapterRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	SubjectID     *int64  `json:"subject_id,omitempty" validate:"omitempty,gt=0"`
	ChapterNumber *int    `json:"chapter_number,omitempty" validate:"omitempty,gt=0"`
}

// CreateTopicRequest captures topic creation payload.
type CreateTopicRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ChapterID   int64   `json:"chapter_id" validate:"required,gt=0"`
}

// UpdateTopicRequest modifies topic fields.
type UpdateTopicRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ChapterID   *int64  `json:"chapter_id,omitempty" validate:"omitempty,gt=0"`
}

// Lineage is a record's resolved ancestor chain, root first. Levels the
// record's own type sits at or above are nil. Unresolvable links carry an
// "Unknown" placeholder ref instead of nil so display code never has to
// branch on missing ancestors.
type Lineage struct {
	Class   *models.ClassRef   `json:"class,omitempty"`
	Stream  *models.StreamRef  `json:"stream,omitempty"`
	Subject *models.SubjectRef `json:"subject,omitempty"`
	Chapter *models.ChapterRef `json:"chapter,omitempty"`
	Label   string             `json:"label,omitempty"`
}

// StreamItem is a stream list entry with its resolved ancestry.
type StreamItem struct {
	models.Stream
	Lineage Lineage `json:"lineage"`
}

// SubjectItem is a subject list entry with its resolved ancestry.
type SubjectItem struct {
	models.Subject
	Lineage Lineage `json:"lineage"`
}

// ChapterItem is a chapter list entry with its resolved ancestry.
type ChapterItem struct {
	models.Chapter
	Lineage Lineage `json:"lineage"`
}

// TopicItem is a topic list entry with its resolved ancestry.
type TopicItem struct {
	models.Topic
	Lineage Lineage `json:"lineage"`
}
