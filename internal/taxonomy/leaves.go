package taxonomy

import "github.com/sahajlabs/exam-admin-gateway/internal/models"

// Leaf adapters turn catalog snapshots into the filter engine's view. Each
// list request adapts once and feeds the result to Apply, OptionSets and
// Sanitize.

func StreamLeaves(c *Collections, streams []models.Stream) []Leaf {
	leaves := make([]Leaf, 0, len(streams))
	for _, stream := range streams {
		leaves = append(leaves, Leaf{
			ID:          stream.ID,
			Name:        stream.Name,
			Description: strValue(stream.Description),
			CreatedAt:   stream.CreatedAt,
			Ancestry:    c.AncestryOfStream(stream),
		})
	}
	return leaves
}

func SubjectLeaves(c *Collections, subjects []models.Subject) []Leaf {
	leaves := make([]Leaf, 0, len(subjects))
	for _, subject := range subjects {
		leaves = append(leaves, Leaf{
			ID:          subject.ID,
			Name:        subject.Name,
			Description: strValue(subject.Description),
			CreatedAt:   subject.CreatedAt,
			Ancestry:    c.AncestryOfSubject(subject),
		})
	}
	return leaves
}

func ChapterLeaves(c *Collections, chapters []models.Chapter) []Leaf {
	leaves := make([]Leaf, 0, len(chapters))
	for _, chapter := range chapters {
		leaves = append(leaves, Leaf{
			ID:          chapter.ID,
			Name:        chapter.Name,
			Description: strValue(chapter.Description),
			CreatedAt:   chapter.CreatedAt,
			Ancestry:    c.AncestryOfChapter(chapter),
		})
	}
	return leaves
}

func TopicLeaves(c *Collections, topics []models.Topic) []Leaf {
	leaves := make([]Leaf, 0, len(topics))
	for _, topic := range topics {
		leaves = append(leaves, Leaf{
			ID:          topic.ID,
			Name:        topic.Name,
			Description: strValue(topic.Description),
			CreatedAt:   topic.CreatedAt,
			Ancestry:    c.AncestryOfTopic(topic),
		})
	}
	return leaves
}

func CourseLeaves(c *Collections, courses []models.Course) []Leaf {
	leaves := make([]Leaf, 0, len(courses))
	for _, course := range courses {
		leaves = append(leaves, Leaf{
			ID:          course.ID,
			Name:        course.Name,
			Description: course.Description,
			CreatedAt:   course.CreatedAt,
			Ancestry:    c.AncestryOfCourse(course),
		})
	}
	return leaves
}

func ExamLeaves(c *Collections, exams []models.Exam) []Leaf {
	leaves := make([]Leaf, 0, len(exams))
	for _, exam := range exams {
		leaves = append(leaves, Leaf{
			ID:          exam.ID,
			Name:        exam.Title,
			Description: strValue(exam.Description),
			CreatedAt:   exam.CreatedAt,
			Ancestry:    c.AncestryOfExam(exam),
		})
	}
	return leaves
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
