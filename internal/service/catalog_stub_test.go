package service

import (
	"context"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

// catalogStub satisfies every service-side catalog interface from fixture
// slices and records which snapshots a mutation asked to refetch.
type catalogStub struct {
	classes       []models.Class
	streams       []models.Stream
	subjects      []models.Subject
	chapters      []models.Chapter
	topics        []models.Topic
	courses       []models.Course
	exams         []models.Exam
	packages      []models.Package
	subscriptions []models.Subscription
	mappingRows   []models.SubscriptionPackageRow

	err        error
	refreshErr error
	refreshed  []string
}

func (s *catalogStub) Classes(ctx context.Context) ([]models.Class, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.classes, nil
}

func (s *catalogStub) Streams(ctx context.Context) ([]models.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.streams, nil
}

func (s *catalogStub) Subjects(ctx context.Context) ([]models.Subject, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.subjects, nil
}

func (s *catalogStub) Chapters(ctx context.Context) ([]models.Chapter, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.chapters, nil
}

func (s *catalogStub) Topics(ctx context.Context) ([]models.Topic, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.topics, nil
}

func (s *catalogStub) Courses(ctx context.Context) ([]models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.courses, nil
}

func (s *catalogStub) Exams(ctx context.Context) ([]models.Exam, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.exams, nil
}

func (s *catalogStub) Packages(ctx context.Context) ([]models.Package, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.packages, nil
}

func (s *catalogStub) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.subscriptions, nil
}

func (s *catalogStub) SubscriptionPackages(ctx context.Context) ([]models.SubscriptionPackageRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mappingRows, nil
}

func (s *catalogStub) refresh(name string) error {
	s.refreshed = append(s.refreshed, name)
	return s.refreshErr
}

func (s *catalogStub) RefreshClasses(ctx context.Context) error  { return s.refresh("classes") }
func (s *catalogStub) RefreshStreams(ctx context.Context) error  { return s.refresh("streams") }
func (s *catalogStub) RefreshSubjects(ctx context.Context) error { return s.refresh("subjects") }
func (s *catalogStub) RefreshChapters(ctx context.Context) error { return s.refresh("chapters") }
func (s *catalogStub) RefreshTopics(ctx context.Context) error   { return s.refresh("topics") }
func (s *catalogStub) RefreshExams(ctx context.Context) error    { return s.refresh("exams") }
func (s *catalogStub) RefreshPackages(ctx context.Context) error { return s.refresh("packages") }

func (s *catalogStub) RefreshSubscriptions(ctx context.Context) error {
	return s.refresh("subscriptions")
}

func (s *catalogStub) RefreshSubscriptionPackages(ctx context.Context) error {
	return s.refresh("subscription_packages")
}

func (s *catalogStub) refreshedOnce(name string) bool {
	count := 0
	for _, entry := range s.refreshed {
		if entry == name {
			count++
		}
	}
	return count == 1
}
