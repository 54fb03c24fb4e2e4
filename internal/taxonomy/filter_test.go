package taxonomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

func fixtureTopicLeaves() []Leaf {
	c := fixtureCollections()
	return TopicLeaves(c, []models.Topic{
		{ID: 1, Name: "Linear Equations", ChapterID: 1, CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Quadratic Equations", ChapterID: 1, CreatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "Triangles", Description: strPtr("Covers congruence rules"), ChapterID: 2, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 4, Name: "Newton Laws", ChapterID: 3, CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 5, Name: "Journal Entries", ChapterID: 4, CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	})
}

func optionValues(options []Option) []int64 {
	values := make([]int64, 0, len(options))
	for _, option := range options {
		values = append(values, option.Value)
	}
	return values
}

func leafIDs(leaves []Leaf) []int64 {
	ids := make([]int64, 0, len(leaves))
	for _, leaf := range leaves {
		ids = append(ids, leaf.ID)
	}
	return ids
}

func TestSelectClearsEveryDeeperLevel(t *testing.T) {
	sel := Selection{Class: 10, Stream: 20, Subject: 30, Chapter: 40}

	sel.Select(LevelClass, 11)

	assert.Equal(t, Selection{Class: 11}, sel)

	sel = Selection{Class: 10, Stream: 20, Subject: 30, Chapter: 40}
	sel.Select(LevelStream, 21)
	assert.Equal(t, Selection{Class: 10, Stream: 21}, sel)

	sel = Selection{Class: 10, Stream: 20, Subject: 30, Chapter: 40}
	sel.Clear(LevelSubject)
	assert.Equal(t, Selection{Class: 10, Stream: 20}, sel)
}

func TestClassChangeRefreshesStreamOptions(t *testing.T) {
	leaves := fixtureTopicLeaves()

	sel := Selection{}
	sel.Select(LevelClass, 1)
	sel.Select(LevelStream, 2)

	sel.Select(LevelClass, 2)
	require.Equal(t, Selection{Class: 2}, sel)

	// Class 2 has no topics in the fixture, so no stream is reachable.
	assert.Empty(t, OptionsFor(LevelStream, sel, leaves))

	sel.Select(LevelClass, 1)
	assert.Equal(t, []int64{2, 1}, optionValues(OptionsFor(LevelStream, sel, leaves)))
}

func TestOptionsComeFromLeavesNotParentCollections(t *testing.T) {
	// Chapter 5 exists in the snapshot but owns no topics; it must not be
	// offered as an option.
	c := fixtureCollections()
	c.chapters[5] = models.Chapter{ID: 5, Name: "Empty Chapter", ChapterNumber: 9, SubjectID: 1}

	leaves := TopicLeaves(c, []models.Topic{
		{ID: 1, Name: "Linear Equations", ChapterID: 1},
	})

	options := OptionsFor(LevelChapter, Selection{}, leaves)
	assert.Equal(t, []int64{1}, optionValues(options))
}

func TestOptionsSkipPlaceholderAncestors(t *testing.T) {
	c := fixtureCollections()
	leaves := TopicLeaves(c, []models.Topic{
		{ID: 1, Name: "Linear Equations", ChapterID: 1},
		{ID: 99, Name: "Orphan", ChapterID: 999},
	})

	options := OptionsFor(LevelChapter, Selection{}, leaves)
	assert.Equal(t, []int64{1}, optionValues(options))
}

func TestOptionsSortedByLabel(t *testing.T) {
	leaves := fixtureTopicLeaves()

	options := OptionsFor(LevelChapter, Selection{}, leaves)

	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}
	assert.Equal(t, []string{"Algebra", "Geometry", "Ledgers", "Mechanics"}, labels)
}

func TestOptionsRespectSelectionsAboveOnly(t *testing.T) {
	leaves := fixtureTopicLeaves()

	// A concrete subject selection must not hide sibling subjects from the
	// subject dropdown itself; only the levels above constrain it.
	sel := Selection{Class: 1, Stream: 1, Subject: 2}
	options := OptionsFor(LevelSubject, sel, leaves)
	assert.Equal(t, []int64{1, 2}, optionValues(options))
}

func TestOptionSetsFillLevelsDownToDeepest(t *testing.T) {
	leaves := fixtureTopicLeaves()

	set := OptionSets(Selection{Class: 1}, leaves, LevelSubject)

	assert.NotEmpty(t, set.Classes)
	assert.NotEmpty(t, set.Streams)
	assert.NotEmpty(t, set.Subjects)
	assert.Nil(t, set.Chapters)
}

func TestSanitizeDropsContradictoryDeeperSelection(t *testing.T) {
	leaves := fixtureTopicLeaves()

	// Stream 3 belongs to class 2; under class 1 it is unreachable, so the
	// stream selection and everything deeper must go.
	raw := Selection{Class: 1, Stream: 3, Subject: 1, Chapter: 1}
	assert.Equal(t, Selection{Class: 1}, Sanitize(raw, leaves))
}

func TestSanitizeKeepsConsistentSelections(t *testing.T) {
	leaves := fixtureTopicLeaves()

	raw := Selection{Class: 1, Stream: 1, Subject: 2, Chapter: 3}
	assert.Equal(t, raw, Sanitize(raw, leaves))

	// A deeper selection without its ancestors is legal as long as it is
	// reachable.
	assert.Equal(t, Selection{Subject: 3}, Sanitize(Selection{Subject: 3}, leaves))
}

func TestSanitizeDropsUnknownIDs(t *testing.T) {
	leaves := fixtureTopicLeaves()

	assert.Equal(t, Selection{}, Sanitize(Selection{Class: 404}, leaves))
}

func TestApplyFiltersBySelection(t *testing.T) {
	leaves := fixtureTopicLeaves()

	visible := Apply(leaves, Selection{Subject: 1}, "", "", "")
	assert.ElementsMatch(t, []int64{1, 2, 3}, leafIDs(visible))

	visible = Apply(leaves, Selection{Class: 1, Stream: 2}, "", "", "")
	assert.Equal(t, []int64{5}, leafIDs(visible))
}

func TestApplySearchesNameAndDescription(t *testing.T) {
	leaves := fixtureTopicLeaves()

	visible := Apply(leaves, Selection{}, "  EQUATIONS ", "", "")
	assert.ElementsMatch(t, []int64{1, 2}, leafIDs(visible))

	visible = Apply(leaves, Selection{}, "congruence", "", "")
	assert.Equal(t, []int64{3}, leafIDs(visible))
}

func TestApplySortsByRequestedKey(t *testing.T) {
	leaves := fixtureTopicLeaves()

	byNameDesc := Apply(leaves, Selection{}, "", SortByName, "desc")
	assert.Equal(t, []int64{3, 2, 4, 1, 5}, leafIDs(byNameDesc))

	byCreated := Apply(leaves, Selection{}, "", SortByCreated, "asc")
	assert.Equal(t, []int64{1, 4, 3, 2, 5}, leafIDs(byCreated))

	// Parent key groups by the ancestor path label:
	// Algebra/... < Geometry/... < Ledgers/... < Mechanics/...
	byParent := Apply(leaves, Selection{}, "", SortByParent, "asc")
	assert.Equal(t, []int64{1, 2, 3, 5, 4}, leafIDs(byParent))
}

func TestApplyDefaultsToNameAscending(t *testing.T) {
	leaves := fixtureTopicLeaves()

	visible := Apply(leaves, Selection{}, "", "bogus", "sideways")
	assert.Equal(t, []int64{5, 1, 4, 2, 3}, leafIDs(visible))
}
