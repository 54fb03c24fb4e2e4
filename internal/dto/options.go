package dto

// FilterOption is one selectable value in a cascading filter dropdown.
type FilterOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// FilterOptions carries the valid option set for each hierarchy level,
// restricted by the selections above it. Levels at or below the listed
// collection's own level are omitted.
type FilterOptions struct {
	Classes  []FilterOption `json:"classes,omitempty"`
	Streams  []FilterOption `json:"streams,omitempty"`
	Subjects []FilterOption `json:"subjects,omitempty"`
	Chapters []FilterOption `json:"chapters,omitempty"`
}

// Selections echoes back the sanitized filter state the options were
// computed under, so clients can reconcile a cascading reset.
type Selections struct {
	ClassID   int64 `json:"class_id,omitempty"`
	StreamID  int64 `json:"stream_id,omitempty"`
	SubjectID int64 `json:"subject_id,omitempty"`
	ChapterID int64 `json:"chapter_id,omitempty"`
}

// ListMeta rides the envelope's meta field on list responses.
type ListMeta struct {
	FilterOptions *FilterOptions `json:"filter_options,omitempty"`
	Selections    *Selections    `json:"selections,omitempty"`
}
