// Package taxonomy holds the hierarchy logic behind every admin screen:
// resolving a record's ancestor chain, cascading level filters, and the
// pre-submission uniqueness checks. Everything operates on catalog
// snapshots; nothing in this package talks to the network.
package taxonomy

import (
	"strings"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

// Placeholder labels for links that cannot be resolved. Placeholders keep
// id 0, so they never become filter options and never match a concrete
// selection.
const (
	UnknownClassName   = "Unknown Class"
	UnknownStreamName  = "Unknown Stream"
	UnknownSubjectName = "Unknown Subject"
	UnknownChapterName = "Unknown Chapter"
)

// Collections indexes catalog snapshots by id for ancestor resolution.
type Collections struct {
	classes  map[int64]models.Class
	streams  map[int64]models.Stream
	subjects map[int64]models.Subject
	chapters map[int64]models.Chapter
	topics   map[int64]models.Topic
	courses  map[int64]models.Course
}

// NewCollections builds the lookup indexes. Slices a caller does not have
// may be nil.
func NewCollections(classes []models.Class, streams []models.Stream, subjects []models.Subject, chapters []models.Chapter, topics []models.Topic) *Collections {
	c := &Collections{
		classes:  make(map[int64]models.Class, len(classes)),
		streams:  make(map[int64]models.Stream, len(streams)),
		subjects: make(map[int64]models.Subject, len(subjects)),
		chapters: make(map[int64]models.Chapter, len(chapters)),
		topics:   make(map[int64]models.Topic, len(topics)),
	}
	for _, class := range classes {
		c.classes[class.ID] = class
	}
	for _, stream := range streams {
		c.streams[stream.ID] = stream
	}
	for _, subject := range subjects {
		c.subjects[subject.ID] = subject
	}
	for _, chapter := range chapters {
		c.chapters[chapter.ID] = chapter
	}
	for _, topic := range topics {
		c.topics[topic.ID] = topic
	}
	return c
}

// WithCourses adds the course index, needed only when resolving exams.
func (c *Collections) WithCourses(courses []models.Course) *Collections {
	c.courses = make(map[int64]models.Course, len(courses))
	for _, course := range courses {
		c.courses[course.ID] = course
	}
	return c
}

// Ancestry is a record's resolved parent chain, truncated at the record's
// own level. A record that carries a denormalized nested parent object
// resolves through it in preference to an id lookup; unresolved links get
// the "Unknown" placeholder for their level.
type Ancestry struct {
	Class   *models.ClassRef
	Stream  *models.StreamRef
	Subject *models.SubjectRef
	Chapter *models.ChapterRef
}

// At returns the id and label the chain holds at a level, or (0, "") when
// the chain is truncated above it.
func (a Ancestry) At(level Level) (int64, string) {
	switch level {
	case LevelClass:
		if a.Class != nil {
			return a.Class.ID, a.Class.Name
		}
	case LevelStream:
		if a.Stream != nil {
			return a.Stream.ID, a.Stream.Name
		}
	case LevelSubject:
		if a.Subject != nil {
			return a.Subject.ID, a.Subject.Name
		}
	case LevelChapter:
		if a.Chapter != nil {
			return a.Chapter.ID, a.Chapter.Name
		}
	}
	return 0, ""
}

// PathLabel renders the chain immediate-parent first, e.g.
// "Algebra / Science / Class 10" for a chapter. It doubles as the parent
// sort key on list screens.
func (a Ancestry) PathLabel() string {
	parts := make([]string, 0, 4)
	for i := len(levels) - 1; i >= 0; i-- {
		if _, name := a.At(levels[i]); name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " / ")
}

// AncestryOfStream resolves a stream's chain: [class].
func (c *Collections) AncestryOfStream(stream models.Stream) Ancestry {
	return Ancestry{Class: c.classRef(stream.Class, stream.ClassID)}
}

// AncestryOfSubject resolves a subject's chain: [class, stream].
func (c *Collections) AncestryOfSubject(subject models.Subject) Ancestry {
	streamRef := c.streamRef(subject.Stream, subject.StreamID)
	return Ancestry{
		Class:  c.classRef(streamRef.Class, streamRef.ClassID),
		Stream: streamRef,
	}
}

// AncestryOfChapter resolves a chapter's chain: [class, stream, subject].
func (c *Collections) AncestryOfChapter(chapter models.Chapter) Ancestry {
	subjectRef := c.subjectRef(chapter.Subject, chapter.SubjectID)
	streamRef := c.streamRef(subjectRef.Stream, subjectRef.StreamID)
	return Ancestry{
		Class:   c.classRef(streamRef.Class, streamRef.ClassID),
		Stream:  streamRef,
		Subject: subjectRef,
	}
}

// AncestryOfTopic resolves a topic's full chain:
// [class, stream, subject, chapter].
func (c *Collections) AncestryOfTopic(topic models.Topic) Ancestry {
	chapterRef := c.chapterRef(topic.Chapter, topic.ChapterID)
	subjectRef := c.subjectRef(chapterRef.Subject, chapterRef.SubjectID)
	streamRef := c.streamRef(subjectRef.Stream, subjectRef.StreamID)
	return Ancestry{
		Class:   c.classRef(streamRef.Class, streamRef.ClassID),
		Stream:  streamRef,
		Subject: subjectRef,
		Chapter: chapterRef,
	}
}

// AncestryOfCourse resolves a course through its deepest hierarchy
// reference. A course with no reference resolves to an empty chain.
func (c *Collections) AncestryOfCourse(course models.Course) Ancestry {
	switch {
	case course.TopicID != nil || course.Topic != nil:
		return c.ancestryOfTopicLink(course.Topic, course.TopicID)
	case course.ChapterID != nil || course.Chapter != nil:
		return c.ancestryOfChapterLink(course.Chapter, course.ChapterID)
	case course.SubjectID != nil || course.Subject != nil:
		return c.ancestryOfSubjectLink(course.Subject, course.SubjectID)
	case course.StreamID != nil || course.Stream != nil:
		streamRef := c.streamRef(course.Stream, deref(course.StreamID))
		return Ancestry{
			Class:  c.classRef(streamRef.Class, streamRef.ClassID),
			Stream: streamRef,
		}
	}
	return Ancestry{}
}

// AncestryOfExam resolves an exam through whichever hierarchy reference it
// carries, deepest first. A course reference delegates to the course's own
// chain.
func (c *Collections) AncestryOfExam(exam models.Exam) Ancestry {
	switch {
	case exam.TopicID != nil || exam.Topic != nil:
		return c.ancestryOfTopicLink(exam.Topic, exam.TopicID)
	case exam.ChapterID != nil || exam.Chapter != nil:
		return c.ancestryOfChapterLink(exam.Chapter, exam.ChapterID)
	case exam.SubjectID != nil || exam.Subject != nil:
		return c.ancestryOfSubjectLink(exam.Subject, exam.SubjectID)
	case exam.ClassID != nil || exam.Class != nil:
		return Ancestry{Class: c.classRef(exam.Class, deref(exam.ClassID))}
	case exam.CourseID != nil:
		if course, ok := c.courses[deref(exam.CourseID)]; ok {
			return c.AncestryOfCourse(course)
		}
	}
	return Ancestry{}
}

// ancestryOfTopicLink resolves a bare topic reference. TopicRef does not
// carry its chapter, so the topic must come from the snapshot.
func (c *Collections) ancestryOfTopicLink(nested *models.TopicRef, id *int64) Ancestry {
	topicID := deref(id)
	if nested != nil && nested.ID > 0 {
		topicID = nested.ID
	}
	if topic, ok := c.topics[topicID]; ok {
		return c.AncestryOfTopic(topic)
	}
	return Ancestry{
		Class:   &models.ClassRef{Name: UnknownClassName},
		Stream:  &models.StreamRef{Name: UnknownStreamName},
		Subject: &models.SubjectRef{Name: UnknownSubjectName},
		Chapter: &models.ChapterRef{Name: UnknownChapterName},
	}
}

func (c *Collections) ancestryOfChapterLink(nested *models.ChapterRef, id *int64) Ancestry {
	chapterRef := c.chapterRef(nested, deref(id))
	subjectRef := c.subjectRef(chapterRef.Subject, chapterRef.SubjectID)
	streamRef := c.streamRef(subjectRef.Stream, subjectRef.StreamID)
	return Ancestry{
		Class:   c.classRef(streamRef.Class, streamRef.ClassID),
		Stream:  streamRef,
		Subject: subjectRef,
		Chapter: chapterRef,
	}
}

func (c *Collections) ancestryOfSubjectLink(nested *models.SubjectRef, id *int64) Ancestry {
	subjectRef := c.subjectRef(nested, deref(id))
	streamRef := c.streamRef(subjectRef.Stream, subjectRef.StreamID)
	return Ancestry{
		Class:   c.classRef(streamRef.Class, streamRef.ClassID),
		Stream:  streamRef,
		Subject: subjectRef,
	}
}

func (c *Collections) classRef(nested *models.ClassRef, id int64) *models.ClassRef {
	if nested != nil && nested.ID > 0 {
		return nested
	}
	if class, ok := c.classes[id]; ok {
		ref := class.Ref()
		return &ref
	}
	return &models.ClassRef{Name: UnknownClassName}
}

func (c *Collections) streamRef(nested *models.StreamRef, id int64) *models.StreamRef {
	if nested != nil && nested.ID > 0 {
		return nested
	}
	if stream, ok := c.streams[id]; ok {
		ref := stream.Ref()
		return &ref
	}
	return &models.StreamRef{Name: UnknownStreamName}
}

func (c *Collections) subjectRef(nested *models.SubjectRef, id int64) *models.SubjectRef {
	if nested != nil && nested.ID > 0 {
		return nested
	}
	if subject, ok := c.subjects[id]; ok {
		ref := subject.Ref()
		return &ref
	}
	return &models.SubjectRef{Name: UnknownSubjectName}
}

func (c *Collections) chapterRef(nested *models.ChapterRef, id int64) *models.ChapterRef {
	if nested != nil && nested.ID > 0 {
		return nested
	}
	if chapter, ok := c.chapters[id]; ok {
		ref := chapter.Ref()
		return &ref
	}
	return &models.ChapterRef{Name: UnknownChapterName}
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
