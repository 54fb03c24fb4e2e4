package models

import "time"

// Package bundles courses for sale.
type Package struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CourseIDs   []int64    `json:"course_ids,omitempty"`
	CreatedBy   int64      `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Subscription is a sellable plan.
type Subscription struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	DurationDays int        `json:"duration_days"`
	Price        float64    `json:"price"`
	MaxExams     *int       `json:"max_exams,omitempty"`
	Features     *string    `json:"features,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// SubscriptionPackageRow is one persisted subscription-to-packages mapping
// row as the upstream API returns it. PackageIDs may be absent on legacy
// rows, which instead carry a single PackageID; rows can also arrive with
// the id list flattened to a JSON string. Reconciliation normalizes all
// three shapes.
type SubscriptionPackageRow struct {
	ID             int64         `json:"id,omitempty"`
	SubscriptionID int64         `json:"subscription_id"`
	PackageID      *int64        `json:"package_id,omitempty"`
	PackageIDs     PackageIDList `json:"package_ids,omitempty"`
	Subscription   *Subscription `json:"subscription,omitempty"`
	CreatedAt      *time.Time    `json:"created_at,omitempty"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
}
