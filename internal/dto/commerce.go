package dto

// CreatePackageRequest captures package creation payload.
type CreatePackageRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	CourseIDs   []int64 `json:"course_ids" validate:"omitempty,dive,gt=0"`
}

// UpdatePackageRequest modifies package fields.
type UpdatePackageRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	CourseIDs   []int64 `json:"course_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

// CreateSubscriptionRequest captures subscription-plan creation payload.
type CreateSubscriptionRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	DurationDays int     `json:"duration_days" validate:"required,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	MaxExams     *int    `json:"max_exams,omitempty" validate:"omitempty,gt=0"`
	Features     string  `json:"features"`
	IsActive     bool    `json:"is_active"`
}

// UpdateSubscriptionRequest modifies subscription-plan fields.
type UpdateSubscriptionRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Description  *string  `json:"description,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	MaxExams     *int     `json:"max_exams,omitempty" validate:"omitempty,gt=0"`
	Features     *string  `json:"features,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}
