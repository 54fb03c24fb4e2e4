package taxonomy

import (
	"strings"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

// Kind names an entity for duplicate checks.
type Kind string

const (
	KindClass   Kind = "class"
	KindStream  Kind = "stream"
	KindSubject Kind = "subject"
	KindChapter Kind = "chapter"
	KindTopic   Kind = "topic"
)

// Checker answers uniqueness questions against the current catalog
// snapshots, before a payload is allowed to reach the upstream API. Name
// comparison is case-insensitive and ignores surrounding whitespace.
// Uniqueness is scoped to the immediate parent: two chapters with the same
// name may exist under sibling subjects of the same stream.
type Checker struct {
	classes  []models.Class
	streams  []models.Stream
	subjects []models.Subject
	chapters []models.Chapter
	topics   []models.Topic
}

// NewChecker binds a checker to snapshot slices; unused ones may be nil.
func NewChecker(classes []models.Class, streams []models.Stream, subjects []models.Subject, chapters []models.Chapter, topics []models.Topic) *Checker {
	return &Checker{
		classes:  classes,
		streams:  streams,
		subjects: subjects,
		chapters: chapters,
		topics:   topics,
	}
}

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsDuplicate reports whether a name collides with a sibling of the same
// kind. parentID scopes the comparison to the immediate parent (ignored
// for classes, which have none). excludeID skips the record being edited;
// 0 means a create.
func (c *Checker) IsDuplicate(kind Kind, name string, parentID, excludeID int64) bool {
	candidate := normalized(name)
	switch kind {
	case KindClass:
		for _, class := range c.classes {
			if class.ID != excludeID && normalized(class.Name) == candidate {
				return true
			}
		}
	case KindStream:
		for _, stream := range c.streams {
			if stream.ID != excludeID && stream.ClassID == parentID && normalized(stream.Name) == candidate {
				return true
			}
		}
	case KindSubject:
		for _, subject := range c.subjects {
			if subject.ID != excludeID && subject.StreamID == parentID && normalized(subject.Name) == candidate {
				return true
			}
		}
	case KindChapter:
		for _, chapter := range c.chapters {
			if chapter.ID != excludeID && chapter.SubjectID == parentID && normalized(chapter.Name) == candidate {
				return true
			}
		}
	case KindTopic:
		for _, topic := range c.topics {
			if topic.ID != excludeID && topic.ChapterID == parentID && normalized(topic.Name) == candidate {
				return true
			}
		}
	}
	return false
}

// IsDuplicateSubjectCode checks a subject code against the whole subject
// collection. Codes are globally unique, the one check that ignores
// parents.
func (c *Checker) IsDuplicateSubjectCode(code string, excludeID int64) bool {
	candidate := normalized(code)
	for _, subject := range c.subjects {
		if subject.ID != excludeID && normalized(subject.Code) == candidate {
			return true
		}
	}
	return false
}

// IsDuplicateChapterNumber checks a chapter number within a subject.
// Chapters carry two independent per-parent constraints: name and number.
func (c *Checker) IsDuplicateChapterNumber(number int, subjectID, excludeID int64) bool {
	for _, chapter := range c.chapters {
		if chapter.ID != excludeID && chapter.SubjectID == subjectID && chapter.ChapterNumber == number {
			return true
		}
	}
	return false
}

// ValidateClass gates a class payload. An empty map means valid.
func (c *Checker) ValidateClass(name string, excludeID int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}
	switch {
	case strings.TrimSpace(name) == "":
		fields.Set("name", "name is required")
	case c.IsDuplicate(KindClass, name, 0, excludeID):
		fields.Set("name", "a class with this name already exists")
	}
	return fields
}

// ValidateStream gates a stream payload against its class siblings.
func (c *Checker) ValidateStream(name string, classID, excludeID int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}
	named := strings.TrimSpace(name) != ""
	switch {
	case !named:
		fields.Set("name", "name is required")
	case c.IsDuplicate(KindStream, name, classID, excludeID):
		fields.Set("name", "a stream with this name already exists in the selected class")
	}
	switch {
	case classID <= 0:
		fields.Set("class_id", "class is required")
	case !c.classExists(classID):
		fields.Set("class_id", "selected class no longer exists")
	}
	if named && fields["class_id"] != "" {
		// The duplicate verdict is scoped to the parent it was computed
		// under; an unusable parent invalidates it.
		fields.ClearStale("name")
	}
	return fields
}

// ValidateSubject gates a subject payload. The name is checked among the
// stream's subjects, the code across the whole collection.
func (c *Checker) ValidateSubject(name, code string, streamID, excludeID int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}
	named := strings.TrimSpace(name) != ""
	switch {
	case !named:
		fields.Set("name", "name is required")
	case c.IsDuplicate(KindSubject, name, streamID, excludeID):
		fields.Set("name", "a subject with this name already exists in the selected stream")
	}
	switch {
	case strings.TrimSpace(code) == "":
		fields.Set("code", "code is required")
	case c.IsDuplicateSubjectCode(code, excludeID):
		fields.Set("code", "this code is already used by another subject")
	}
	switch {
	case streamID <= 0:
		fields.Set("stream_id", "stream is required")
	case !c.streamExists(streamID):
		fields.Set("stream_id", "selected stream no longer exists")
	}
	if named && fields["stream_id"] != "" {
		fields.ClearStale("name")
	}
	return fields
}

// ValidateChapter gates a chapter payload; name and number are checked
// independently among the subject's chapters.
func (c *Checker) ValidateChapter(name string, number int, subjectID, excludeID int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}
	named := strings.TrimSpace(name) != ""
	switch {
	case !named:
		fields.Set("name", "name is required")
	case c.IsDuplicate(KindChapter, name, subjectID, excludeID):
		fields.Set("name", "a chapter with this name already exists in the selected subject")
	}
	switch {
	case number <= 0:
		fields.Set("chapter_number", "chapter number must be a positive integer")
	case c.IsDuplicateChapterNumber(number, subjectID, excludeID):
		fields.Set("chapter_number", "this chapter number is already used in the selected subject")
	}
	switch {
	case subjectID <= 0:
		fields.Set("subject_id", "subject is required")
	case !c.subjectExists(subjectID):
		fields.Set("subject_id", "selected subject no longer exists")
	}
	if fields["subject_id"] != "" {
		if named {
			fields.ClearStale("name")
		}
		if number > 0 {
			fields.ClearStale("chapter_number")
		}
	}
	return fields
}

// ValidateTopic gates a topic payload against its chapter siblings.
func (c *Checker) ValidateTopic(name string, chapterID, excludeID int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}
	named := strings.TrimSpace(name) != ""
	switch {
	case !named:
		fields.Set("name", "name is required")
	case c.IsDuplicate(KindTopic, name, chapterID, excludeID):
		fields.Set("name", "a topic with this name already exists in the selected chapter")
	}
	switch {
	case chapterID <= 0:
		fields.Set("chapter_id", "chapter is required")
	case !c.chapterExists(chapterID):
		fields.Set("chapter_id", "selected chapter no longer exists")
	}
	if named && fields["chapter_id"] != "" {
		fields.ClearStale("name")
	}
	return fields
}

func (c *Checker) classExists(id int64) bool {
	for i := range c.classes {
		if c.classes[i].ID == id {
			return true
		}
	}
	return false
}

func (c *Checker) streamExists(id int64) bool {
	for i := range c.streams {
		if c.streams[i].ID == id {
			return true
		}
	}
	return false
}

func (c *Checker) subjectExists(id int64) bool {
	for i := range c.subjects {
		if c.subjects[i].ID == id {
			return true
		}
	}
	return false
}

func (c *Checker) chapterExists(id int64) bool {
	for i := range c.chapters {
		if c.chapters[i].ID == id {
			return true
		}
	}
	return false
}
