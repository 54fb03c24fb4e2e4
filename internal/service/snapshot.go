package service

import (
	"context"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/taxonomy"
)

// taxonomyCatalog is the slice of the catalog every hierarchy screen reads.
// *catalog.Catalog satisfies it; tests substitute fixtures.
type taxonomyCatalog interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Streams(ctx context.Context) ([]models.Stream, error)
	Subjects(ctx context.Context) ([]models.Subject, error)
	Chapters(ctx context.Context) ([]models.Chapter, error)
	Topics(ctx context.Context) ([]models.Topic, error)
}

// taxonomySnapshot is one request's view of the hierarchy. All lookups for
// a single request resolve against the same snapshot, so a mid-request
// catalog refresh cannot mix generations.
type taxonomySnapshot struct {
	classes  []models.Class
	streams  []models.Stream
	subjects []models.Subject
	chapters []models.Chapter
	topics   []models.Topic
}

func loadTaxonomy(ctx context.Context, cat taxonomyCatalog) (*taxonomySnapshot, error) {
	var (
		snap taxonomySnapshot
		err  error
	)
	if snap.classes, err = cat.Classes(ctx); err != nil {
		return nil, err
	}
	if snap.streams, err = cat.Streams(ctx); err != nil {
		return nil, err
	}
	if snap.subjects, err = cat.Subjects(ctx); err != nil {
		return nil, err
	}
	if snap.chapters, err = cat.Chapters(ctx); err != nil {
		return nil, err
	}
	if snap.topics, err = cat.Topics(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *taxonomySnapshot) collections() *taxonomy.Collections {
	return taxonomy.NewCollections(s.classes, s.streams, s.subjects, s.chapters, s.topics)
}

func (s *taxonomySnapshot) checker() *taxonomy.Checker {
	return taxonomy.NewChecker(s.classes, s.streams, s.subjects, s.chapters, s.topics)
}

// toSelection maps the wire-level filter state onto the engine's type.
func toSelection(sel dto.Selections) taxonomy.Selection {
	return taxonomy.Selection{
		Class:   sel.ClassID,
		Stream:  sel.StreamID,
		Subject: sel.SubjectID,
		Chapter: sel.ChapterID,
	}
}

func fromSelection(sel taxonomy.Selection) dto.Selections {
	return dto.Selections{
		ClassID:   sel.Class,
		StreamID:  sel.Stream,
		SubjectID: sel.Subject,
		ChapterID: sel.Chapter,
	}
}

func toFilterOptions(set taxonomy.OptionSet) *dto.FilterOptions {
	return &dto.FilterOptions{
		Classes:  toOptions(set.Classes),
		Streams:  toOptions(set.Streams),
		Subjects: toOptions(set.Subjects),
		Chapters: toOptions(set.Chapters),
	}
}

func toOptions(options []taxonomy.Option) []dto.FilterOption {
	if options == nil {
		return nil
	}
	out := make([]dto.FilterOption, 0, len(options))
	for _, option := range options {
		out = append(out, dto.FilterOption{Value: option.Value, Label: option.Label})
	}
	return out
}

// listMeta assembles the envelope meta for a filtered list: the dropdown
// options valid under the sanitized selection, and the selection itself so
// clients can reconcile a cascaded reset.
func listMeta(sel taxonomy.Selection, leaves []taxonomy.Leaf, deepest taxonomy.Level) *dto.ListMeta {
	selections := fromSelection(sel)
	return &dto.ListMeta{
		FilterOptions: toFilterOptions(taxonomy.OptionSets(sel, leaves, deepest)),
		Selections:    &selections,
	}
}

func lineageOf(a taxonomy.Ancestry) dto.Lineage {
	return dto.Lineage{
		Class:   a.Class,
		Stream:  a.Stream,
		Subject: a.Subject,
		Chapter: a.Chapter,
		Label:   a.PathLabel(),
	}
}

// paginateLeaves slices one page out of the filtered result. The leaves
// arrive already sorted, so paging is a plain window.
func paginateLeaves(leaves []taxonomy.Leaf, params models.ListParams) ([]taxonomy.Leaf, *models.Pagination) {
	total := len(leaves)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	pagination := &models.Pagination{Page: params.Page, PageSize: params.PageSize, TotalCount: total}
	return leaves[start:end], pagination
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
