package models

import "time"

// Subscription report time periods accepted by the upstream API.
const (
	PeriodLastWeek    = "last_week"
	PeriodLastMonth   = "last_month"
	PeriodLast3Months = "last_3_months"
	PeriodLast6Months = "last_6_months"
	PeriodLastYear    = "last_year"
	PeriodAll         = "all"
)

// ValidPeriod reports whether the given time period is one the upstream
// report endpoint understands.
func ValidPeriod(period string) bool {
	switch period {
	case PeriodLastWeek, PeriodLastMonth, PeriodLast3Months, PeriodLast6Months, PeriodLastYear, PeriodAll:
		return true
	}
	return false
}

// SubscriptionBreakdown is one plan's slice of the overview report.
type SubscriptionBreakdown struct {
	SubscriptionID int64   `json:"subscription_id"`
	Name           string  `json:"name"`
	TotalUsers     int     `json:"total_users"`
	ActiveUsers    int     `json:"active_users"`
	Revenue        float64 `json:"revenue"`
}

// SubscriptionOverview aggregates subscription statistics for a period.
type SubscriptionOverview struct {
	TotalSubscriptions     int                     `json:"total_subscriptions"`
	ActiveSubscriptions    int                     `json:"active_subscriptions"`
	ExpiredSubscriptions   int                     `json:"expired_subscriptions"`
	CancelledSubscriptions int                     `json:"cancelled_subscriptions"`
	TotalRevenue           float64                 `json:"total_revenue"`
	SubscriptionBreakdown  []SubscriptionBreakdown `json:"subscription_breakdown"`
}

// RecentExam is a dashboard row for a recently attempted exam.
type RecentExam struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
}

// TopPerformer is a dashboard row for a high-scoring student.
type TopPerformer struct {
	StudentID    int64      `json:"student_id"`
	Name         string     `json:"name"`
	TotalExams   int        `json:"total_exams"`
	AverageScore float64    `json:"average_score"`
	LastExamDate *time.Time `json:"last_exam_date,omitempty"`
}

// DashboardStats is the administrative landing-page summary.
type DashboardStats struct {
	TotalStudents int            `json:"total_students"`
	TotalExams    int            `json:"total_exams"`
	AverageScore  float64        `json:"average_score"`
	RecentExams   []RecentExam   `json:"recent_exams"`
	TopPerformers []TopPerformer `json:"top_performers"`
}
