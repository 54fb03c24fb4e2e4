package dto

import "github.com/sahajlabs/exam-admin-gateway/internal/models"

// CreateMappingRequest maps a set of packages to one subscription. The
// upstream stores the whole set as a single bulk row.
type CreateMappingRequest struct {
	SubscriptionID int64   `json:"subscription_id" validate:"required,gt=0"`
	PackageIDs     []int64 `json:"package_ids" validate:"required,min=1,dive,gt=0"`
}

// ReplaceMappingRequest swaps a subscription's package set. The subscription
// id comes from the URL, so only the new set travels in the body.
type ReplaceMappingRequest struct {
	PackageIDs []int64 `json:"package_ids" validate:"required,min=1,dive,gt=0"`
}

// MappingGroup is the reconciled view of one subscription's mapping,
// decorated with full package records where the catalog can supply them.
type MappingGroup struct {
	SubscriptionID   int64            `json:"subscription_id"`
	SubscriptionName string           `json:"subscription_name"`
	PackageIDs       []int64          `json:"package_ids"`
	Packages         []models.Package `json:"packages"`
}

// SubscriptionOption is a picker entry for the mapping create/edit forms.
type SubscriptionOption struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}
