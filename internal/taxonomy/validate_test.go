package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

func fixtureChecker() *Checker {
	return NewChecker(
		[]models.Class{
			{ID: 1, Name: "Class 10"},
			{ID: 2, Name: "Class 12"},
		},
		[]models.Stream{
			{ID: 1, Name: "Science", ClassID: 1},
			{ID: 2, Name: "Commerce", ClassID: 1},
		},
		[]models.Subject{
			{ID: 1, Name: "Math", Code: "MTH", StreamID: 1},
		},
		nil,
		[]models.Topic{
			{ID: 7, Name: "Waves", ChapterID: 3},
		},
	)
}

func TestSubjectCodeIsGlobalAcrossStreams(t *testing.T) {
	c := fixtureChecker()

	fields := c.ValidateSubject("Physics", "MTH", 2, 0)
	assert.Equal(t, "this code is already used by another subject", fields["code"])
	assert.NotContains(t, fields, "name")

	assert.True(t, c.IsDuplicateSubjectCode(" mth ", 0))
	assert.False(t, c.IsDuplicateSubjectCode("MTH", 1))
}

func TestChapterNameAndNumberScopedToSubject(t *testing.T) {
	c := NewChecker(
		nil,
		nil,
		[]models.Subject{
			{ID: 5, Name: "Biology", Code: "BIO", StreamID: 1},
			{ID: 9, Name: "Chemistry", Code: "CHM", StreamID: 1},
		},
		[]models.Chapter{
			{ID: 1, Name: "Intro", ChapterNumber: 1, SubjectID: 5},
		},
		nil,
	)

	fields := c.ValidateChapter("Intro", 2, 5, 0)
	assert.Contains(t, fields, "name")
	assert.NotContains(t, fields, "chapter_number")

	fields = c.ValidateChapter("Basics", 1, 5, 0)
	assert.NotContains(t, fields, "name")
	assert.Contains(t, fields, "chapter_number")

	// Same name and number under a different subject is fine.
	assert.Empty(t, c.ValidateChapter("Intro", 1, 9, 0))
}

func TestEditingRecordNeverFlagsItself(t *testing.T) {
	c := fixtureChecker()

	assert.True(t, c.IsDuplicate(KindTopic, "Waves", 3, 0))
	assert.False(t, c.IsDuplicate(KindTopic, "Waves", 3, 7))
}

func TestNameComparisonIsCaseInsensitiveAndTrimmed(t *testing.T) {
	c := fixtureChecker()

	assert.True(t, c.IsDuplicate(KindClass, "  class 10 ", 0, 0))
	assert.True(t, c.IsDuplicate(KindStream, "SCIENCE", 1, 0))
	assert.False(t, c.IsDuplicate(KindStream, "SCIENCE", 2, 0))
}

func TestValidateStreamRequiredFields(t *testing.T) {
	c := fixtureChecker()

	fields := c.ValidateStream("", 0, 0)
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "class is required", fields["class_id"])
}

func TestValidateChapterRequiresPositiveNumber(t *testing.T) {
	c := fixtureChecker()

	fields := c.ValidateChapter("Optics", 0, 1, 0)
	assert.Equal(t, "chapter number must be a positive integer", fields["chapter_number"])
}

func TestParentErrorDropsDuplicateVerdict(t *testing.T) {
	// Snapshots refresh independently; the stream snapshot can reference a
	// class the class snapshot no longer holds. The duplicate verdict
	// computed under that parent is stale and must not surface.
	c := NewChecker(
		[]models.Class{{ID: 1, Name: "Class 10"}},
		[]models.Stream{{ID: 8, Name: "Science", ClassID: 42}},
		nil,
		nil,
		nil,
	)

	fields := c.ValidateStream("Science", 42, 0)
	assert.Equal(t, "selected class no longer exists", fields["class_id"])
	assert.NotContains(t, fields, "name")

	// A missing name is not parent-scoped and survives.
	fields = c.ValidateStream("", 42, 0)
	assert.Equal(t, "name is required", fields["name"])
}

func TestSubjectCodeErrorSurvivesParentError(t *testing.T) {
	c := fixtureChecker()

	fields := c.ValidateSubject("Math", "MTH", 404, 0)
	assert.Equal(t, "selected stream no longer exists", fields["stream_id"])
	assert.Contains(t, fields, "code")
	assert.NotContains(t, fields, "name")
}

func TestValidateTopicScopedToChapter(t *testing.T) {
	c := NewChecker(
		nil,
		nil,
		nil,
		[]models.Chapter{
			{ID: 3, Name: "Sound", ChapterNumber: 1, SubjectID: 1},
			{ID: 4, Name: "Light", ChapterNumber: 2, SubjectID: 1},
		},
		[]models.Topic{
			{ID: 7, Name: "Waves", ChapterID: 3},
		},
	)

	fields := c.ValidateTopic("waves", 3, 0)
	assert.Equal(t, "a topic with this name already exists in the selected chapter", fields["name"])

	assert.Empty(t, c.ValidateTopic("Waves", 4, 0))
	assert.Empty(t, c.ValidateTopic("Waves", 3, 7))
}
