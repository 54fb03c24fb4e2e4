// Package catalog caches complete upstream collections in memory. Every
// admin screen works off these snapshots: list endpoints filter and sort
// them locally, validators scan them for duplicates, resolvers follow
// parent links through them. Snapshots are refetched after any confirmed
// mutation and age out by TTL otherwise.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

// Source lists the upstream collections. *upstream.Client satisfies it.
type Source interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Streams(ctx context.Context) ([]models.Stream, error)
	Subjects(ctx context.Context) ([]models.Subject, error)
	Chapters(ctx context.Context) ([]models.Chapter, error)
	Topics(ctx context.Context) ([]models.Topic, error)
	Courses(ctx context.Context) ([]models.Course, error)
	Exams(ctx context.Context) ([]models.Exam, error)
	Packages(ctx context.Context) ([]models.Package, error)
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	SubscriptionPackages(ctx context.Context) ([]models.SubscriptionPackageRow, error)
}

// Collection is a read-through snapshot of one upstream collection.
// Returned slices are shared; callers must treat them as read-only.
type Collection[T any] struct {
	fetch func(ctx context.Context) ([]T, error)
	ttl   time.Duration

	mu         sync.RWMutex
	items      []T
	fetchedAt  time.Time
	generation uint64
}

func newCollection[T any](ttl time.Duration, fetch func(ctx context.Context) ([]T, error)) *Collection[T] {
	return &Collection[T]{fetch: fetch, ttl: ttl}
}

// Get returns the current snapshot, fetching when empty or older than the
// TTL. A TTL of zero or less means snapshots only age out explicitly.
func (c *Collection[T]) Get(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	if c.freshLocked() {
		items := c.items
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()
	return c.Refresh(ctx)
}

// Refresh refetches the collection. Concurrent refreshes are resolved by
// generation: a refresh that started before a newer snapshot (or an
// invalidation) landed discards its own result. A failed refetch drops the
// old snapshot; after a mutation the pre-mutation data must not keep
// serving.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	before := c.generation
	c.mu.RUnlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != before {
		// A newer snapshot landed while this fetch was in flight.
		if err != nil {
			return nil, err
		}
		return c.items, nil
	}
	if err != nil {
		c.dropLocked()
		return nil, err
	}

	c.generation++
	c.items = items
	c.fetchedAt = time.Now()
	return items, nil
}

// Invalidate drops the snapshot without fetching. Any in-flight refresh
// that started earlier will discard its result.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	c.dropLocked()
	c.mu.Unlock()
}

func (c *Collection[T]) dropLocked() {
	c.generation++
	c.items = nil
	c.fetchedAt = time.Time{}
}

func (c *Collection[T]) freshLocked() bool {
	if c.fetchedAt.IsZero() {
		return false
	}
	return c.ttl <= 0 || time.Since(c.fetchedAt) < c.ttl
}

// Catalog aggregates one collection per upstream entity.
type Catalog struct {
	classes       *Collection[models.Class]
	streams       *Collection[models.Stream]
	subjects      *Collection[models.Subject]
	chapters      *Collection[models.Chapter]
	topics        *Collection[models.Topic]
	courses       *Collection[models.Course]
	exams         *Collection[models.Exam]
	packages      *Collection[models.Package]
	subscriptions *Collection[models.Subscription]
	mappings      *Collection[models.SubscriptionPackageRow]
}

// New builds a catalog over a source with one shared TTL.
func New(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		classes:       newCollection(ttl, source.Classes),
		streams:       newCollection(ttl, source.Streams),
		subjects:      newCollection(ttl, source.Subjects),
		chapters:      newCollection(ttl, source.Chapters),
		topics:        newCollection(ttl, source.Topics),
		courses:       newCollection(ttl, source.Courses),
		exams:         newCollection(ttl, source.Exams),
		packages:      newCollection(ttl, source.Packages),
		subscriptions: newCollection(ttl, source.Subscriptions),
		mappings:      newCollection(ttl, source.SubscriptionPackages),
	}
}

func (c *Catalog) Classes(ctx context.Context) ([]models.Class, error) { return c.classes.Get(ctx) }

func (c *Catalog) Streams(ctx context.Context) ([]models.Stream, error) { return c.streams.Get(ctx) }

func (c *Catalog) Subjects(ctx context.Context) ([]models.Subject, error) {
	return c.subjects.Get(ctx)
}

func (c *Catalog) Chapters(ctx context.Context) ([]models.Chapter, error) {
	return c.chapters.Get(ctx)
}

func (c *Catalog) Topics(ctx context.Context) ([]models.Topic, error) { return c.topics.Get(ctx) }

func (c *Catalog) Courses(ctx context.Context) ([]models.Course, error) { return c.courses.Get(ctx) }

func (c *Catalog) Exams(ctx context.Context) ([]models.Exam, error) { return c.exams.Get(ctx) }

func (c *Catalog) Packages(ctx context.Context) ([]models.Package, error) {
	return c.packages.Get(ctx)
}

func (c *Catalog) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	return c.subscriptions.Get(ctx)
}

func (c *Catalog) SubscriptionPackages(ctx context.Context) ([]models.SubscriptionPackageRow, error) {
	return c.mappings.Get(ctx)
}

func (c *Catalog) RefreshClasses(ctx context.Context) error {
	_, err := c.classes.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshStreams(ctx context.Context) error {
	_, err := c.streams.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshSubjects(ctx context.Context) error {
	_, err := c.subjects.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshChapters(ctx context.Context) error {
	_, err := c.chapters.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshTopics(ctx context.Context) error {
	_, err := c.topics.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshCourses(ctx context.Context) error {
	_, err := c.courses.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshExams(ctx context.Context) error {
	_, err := c.exams.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshPackages(ctx context.Context) error {
	_, err := c.packages.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshSubscriptions(ctx context.Context) error {
	_, err := c.subscriptions.Refresh(ctx)
	return err
}

func (c *Catalog) RefreshSubscriptionPackages(ctx context.Context) error {
	_, err := c.mappings.Refresh(ctx)
	return err
}

// Entity names used by the background refresher and metrics.
const (
	EntityClasses       = "classes"
	EntityStreams       = "streams"
	EntitySubjects      = "subjects"
	EntityChapters      = "chapters"
	EntityTopics        = "topics"
	EntityCourses       = "courses"
	EntityExams         = "exams"
	EntityPackages      = "packages"
	EntitySubscriptions = "subscriptions"
	EntityMappings      = "subscription_packages"
)

// RefreshFuncs returns the named per-entity refreshers, in a stable order
// for the background warmer.
func (c *Catalog) RefreshFuncs() []NamedRefresh {
	return []NamedRefresh{
		{EntityClasses, c.RefreshClasses},
		{EntityStreams, c.RefreshStreams},
		{EntitySubjects, c.RefreshSubjects},
		{EntityChapters, c.RefreshChapters},
		{EntityTopics, c.RefreshTopics},
		{EntityCourses, c.RefreshCourses},
		{EntityExams, c.RefreshExams},
		{EntityPackages, c.RefreshPackages},
		{EntitySubscriptions, c.RefreshSubscriptions},
		{EntityMappings, c.RefreshSubscriptionPackages},
	}
}

// NamedRefresh pairs an entity name with its refresh function.
type NamedRefresh struct {
	Entity  string
	Refresh func(ctx context.Context) error
}
