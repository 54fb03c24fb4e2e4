package taxonomy

import (
	"sort"
	"strings"
	"time"
)

// Level is one tier of the taxonomy hierarchy, ordered root first.
type Level int

const (
	LevelClass Level = iota
	LevelStream
	LevelSubject
	LevelChapter
)

var levels = [...]Level{LevelClass, LevelStream, LevelSubject, LevelChapter}

func (l Level) String() string {
	switch l {
	case LevelClass:
		return "class"
	case LevelStream:
		return "stream"
	case LevelSubject:
		return "subject"
	case LevelChapter:
		return "chapter"
	}
	return "unknown"
}

// Sort keys accepted by Apply.
const (
	SortByName    = "name"
	SortByParent  = "parent"
	SortByCreated = "created_at"
)

// Selection holds at most one concrete id per level; 0 means "all".
type Selection struct {
	Class   int64
	Stream  int64
	Subject int64
	Chapter int64
}

// At returns the selection at a level.
func (s Selection) At(level Level) int64 {
	switch level {
	case LevelClass:
		return s.Class
	case LevelStream:
		return s.Stream
	case LevelSubject:
		return s.Subject
	case LevelChapter:
		return s.Chapter
	}
	return 0
}

func (s *Selection) set(level Level, id int64) {
	switch level {
	case LevelClass:
		s.Class = id
	case LevelStream:
		s.Stream = id
	case LevelSubject:
		s.Subject = id
	case LevelChapter:
		s.Chapter = id
	}
}

// Select sets the selection at a level and clears every deeper level. The
// cascade holds for every transition, not just the immediate child.
func (s *Selection) Select(level Level, id int64) {
	s.set(level, id)
	for _, deeper := range levels {
		if deeper > level {
			s.set(deeper, 0)
		}
	}
}

// Clear resets a level to "all", cascading like Select.
func (s *Selection) Clear(level Level) {
	s.Select(level, 0)
}

// matches reports whether an ancestry satisfies every concrete selection.
// Placeholder ancestors (id 0) never match a concrete id.
func (s Selection) matches(a Ancestry) bool {
	for _, level := range levels {
		want := s.At(level)
		if want == 0 {
			continue
		}
		if id, _ := a.At(level); id != want {
			return false
		}
	}
	return true
}

// matchesAbove checks only the selections at levels strictly above the
// given one.
func (s Selection) matchesAbove(level Level, a Ancestry) bool {
	for _, shallower := range levels {
		if shallower >= level {
			break
		}
		want := s.At(shallower)
		if want == 0 {
			continue
		}
		if id, _ := a.At(shallower); id != want {
			return false
		}
	}
	return true
}

// Leaf is the filter engine's view of one record in the collection being
// listed. Each screen adapts its entities into leaves once per request.
type Leaf struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	Ancestry    Ancestry
}

// Option is one selectable value in a filter dropdown.
type Option struct {
	Value int64
	Label string
}

// OptionSet carries the dropdown options for every level of a screen.
type OptionSet struct {
	Classes  []Option
	Streams  []Option
	Subjects []Option
	Chapters []Option
}

// OptionsFor returns the distinct, label-sorted options at a level,
// restricted by the selections strictly above it. Options are derived from
// the leaves, never from the raw parent collections, so a parent with zero
// leaf descendants under the current constraints does not appear.
func OptionsFor(level Level, sel Selection, leaves []Leaf) []Option {
	seen := make(map[int64]string)
	for _, leaf := range leaves {
		if !sel.matchesAbove(level, leaf.Ancestry) {
			continue
		}
		id, label := leaf.Ancestry.At(level)
		if id == 0 {
			continue
		}
		seen[id] = label
	}

	options := make([]Option, 0, len(seen))
	for id, label := range seen {
		options = append(options, Option{Value: id, Label: label})
	}
	sort.Slice(options, func(i, j int) bool {
		a, b := strings.ToLower(options[i].Label), strings.ToLower(options[j].Label)
		if a != b {
			return a < b
		}
		return options[i].Value < options[j].Value
	})
	return options
}

// OptionSets computes the options for every level from the root down to
// deepest, in one pass per level.
func OptionSets(sel Selection, leaves []Leaf, deepest Level) OptionSet {
	var set OptionSet
	for _, level := range levels {
		if level > deepest {
			break
		}
		options := OptionsFor(level, sel, leaves)
		switch level {
		case LevelClass:
			set.Classes = options
		case LevelStream:
			set.Streams = options
		case LevelSubject:
			set.Subjects = options
		case LevelChapter:
			set.Chapters = options
		}
	}
	return set
}

// Sanitize rebuilds a query-supplied selection walking root to deepest,
// dropping the first selection that is not reachable under the ones above
// it together with everything deeper. The result never contains a deeper
// selection that contradicts an ancestor, so OptionsFor and Apply start
// from a consistent state.
func Sanitize(sel Selection, leaves []Leaf) Selection {
	var clean Selection
	for _, level := range levels {
		id := sel.At(level)
		if id == 0 {
			continue
		}
		if !reachable(level, id, clean, leaves) {
			break
		}
		clean.set(level, id)
	}
	return clean
}

func reachable(level Level, id int64, sel Selection, leaves []Leaf) bool {
	for _, leaf := range leaves {
		if !sel.matchesAbove(level, leaf.Ancestry) {
			continue
		}
		if got, _ := leaf.Ancestry.At(level); got == id {
			return true
		}
	}
	return false
}

// Apply returns the leaves visible under a selection and search term,
// sorted by the requested key. Search is a case-insensitive substring
// match over name and description. Sorting is stable; unknown keys fall
// back to name.
func Apply(leaves []Leaf, sel Selection, search, sortBy, order string) []Leaf {
	needle := strings.ToLower(strings.TrimSpace(search))

	visible := make([]Leaf, 0, len(leaves))
	for _, leaf := range leaves {
		if !sel.matches(leaf.Ancestry) {
			continue
		}
		if needle != "" && !matchesSearch(leaf, needle) {
			continue
		}
		visible = append(visible, leaf)
	}

	sortLeaves(visible, sortBy, strings.EqualFold(order, "desc"))
	return visible
}

func matchesSearch(leaf Leaf, needle string) bool {
	return strings.Contains(strings.ToLower(leaf.Name), needle) ||
		strings.Contains(strings.ToLower(leaf.Description), needle)
}

func sortLeaves(leaves []Leaf, sortBy string, desc bool) {
	var less func(i, j int) bool
	switch sortBy {
	case SortByCreated:
		less = func(i, j int) bool {
			return leaves[i].CreatedAt.Before(leaves[j].CreatedAt)
		}
	case SortByParent:
		less = func(i, j int) bool {
			a := strings.ToLower(leaves[i].Ancestry.PathLabel())
			b := strings.ToLower(leaves[j].Ancestry.PathLabel())
			if a != b {
				return a < b
			}
			return strings.ToLower(leaves[i].Name) < strings.ToLower(leaves[j].Name)
		}
	default:
		less = func(i, j int) bool {
			return strings.ToLower(leaves[i].Name) < strings.ToLower(leaves[j].Name)
		}
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		return less(i, j)
	})
}
