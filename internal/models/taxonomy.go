package models

import "time"

// Taxonomy reference shapes. The upstream API denormalizes each record's
// ancestors as nested objects alongside the foreign-key id; resolution
// prefers the nested object and falls back to an id lookup. The nested
// class on a stream is serialized under the key "class_" upstream, and the
// gateway preserves that key verbatim.

// ClassRef is the embedded shape of a class inside descendant records.
type ClassRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// StreamRef is the embedded shape of a stream inside descendant records.
type StreamRef struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ClassID     int64     `json:"class_id,omitempty"`
	Class       *ClassRef `json:"class_,omitempty"`
}

// SubjectRef is the embedded shape of a subject inside descendant records.
type SubjectRef struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description *string    `json:"description,omitempty"`
	StreamID    int64      `json:"stream_id,omitempty"`
	Stream      *StreamRef `json:"stream,omitempty"`
}

// ChapterRef is the embedded shape of a chapter inside descendant records.
type ChapterRef struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	SubjectID     int64       `json:"subject_id,omitempty"`
	ChapterNumber int         `json:"chapter_number,omitempty"`
	Subject       *SubjectRef `json:"subject,omitempty"`
}

// TopicRef is the embedded shape of a topic inside a chapter record.
type TopicRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Class is the root of the taxonomy hierarchy.
type Class struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedBy   int64      `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Stream belongs to exactly one class.
type Stream struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ClassID     int64      `json:"class_id"`
	Class       *ClassRef  `json:"class_,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Subject belongs to exactly one stream. Code is unique across the whole
// subject collection, not per stream.
type Subject struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description *string    `json:"description,omitempty"`
	Credits     int        `json:"credits,omitempty"`
	StreamID    int64      `json:"stream_id"`
	Stream      *StreamRef `json:"stream,omitempty"`
	CreatedBy   int64      `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Chapter belongs to exactly one subject. Both name and chapter number are
// unique within the owning subject.
type Chapter struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	SubjectID     int64       `json:"subject_id"`
	ChapterNumber int         `json:"chapter_number,omitempty"`
	Subject       *SubjectRef `json:"subject,omitempty"`
	Topics        []TopicRef  `json:"topics,omitempty"`
	CreatedBy     int64       `json:"created_by,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
}

// Topic belongs to exactly one chapter and is the deepest taxonomy level.
type Topic struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	ChapterID   int64       `json:"chapter_id"`
	Chapter     *ChapterRef `json:"chapter,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// Ref views used when a full record has to stand in for an embedded
// ancestor, e.g. when the resolver falls back to catalog lookups.

func (c Class) Ref() ClassRef {
	return ClassRef{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (s Stream) Ref() StreamRef {
	return StreamRef{ID: s.ID, Name: s.Name, Description: s.Description, ClassID: s.ClassID, Class: s.Class}
}

func (s Subject) Ref() SubjectRef {
	return SubjectRef{ID: s.ID, Name: s.Name, Code: s.Code, Description: s.Description, StreamID: s.StreamID, Stream: s.Stream}
}

func (c Chapter) Ref() ChapterRef {
	return ChapterRef{ID: c.ID, Name: c.Name, Description: c.Description, SubjectID: c.SubjectID, ChapterNumber: c.ChapterNumber, Subject: c.Subject}
}
