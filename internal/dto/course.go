package dto

import "github.com/sahajlabs/exam-admin-gateway/internal/models"

// CourseItem is a course list entry with its resolved ancestry. Courses are
// managed elsewhere on the platform, so the gateway exposes no course
// mutation payloads.
type CourseItem struct {
	models.Course
	Lineage Lineage `json:"lineage"`
}
