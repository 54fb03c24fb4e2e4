// Package mapping reconciles the platform's subscription/package rows into
// one canonical group per subscription. The upstream table accumulated
// three row shapes over time: pairwise {subscription_id, package_id}, bulk
// {subscription_id, package_ids: [...]}, and bulk with package_ids as a
// JSON-encoded string. The models codec normalizes the string shape at
// decode time; this package folds whatever arrives into the bulk shape.
package mapping

import (
	"sort"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

// Group is one subscription's canonical package set.
type Group struct {
	SubscriptionID int64   `json:"subscription_id"`
	PackageIDs     []int64 `json:"package_ids"`
}

// GroupBySubscription merges raw rows into one group per subscription. A
// lone package_id counts as a one-element set. Package ids come back
// sorted and deduplicated; subscriptions keep first-seen order.
func GroupBySubscription(rows []models.SubscriptionPackageRow) []Group {
	index := make(map[int64]int, len(rows))
	groups := make([]Group, 0, len(rows))

	for _, row := range rows {
		pos, ok := index[row.SubscriptionID]
		if !ok {
			pos = len(groups)
			index[row.SubscriptionID] = pos
			groups = append(groups, Group{SubscriptionID: row.SubscriptionID})
		}
		groups[pos].PackageIDs = append(groups[pos].PackageIDs, row.PackageIDs...)
		if row.PackageID != nil {
			groups[pos].PackageIDs = append(groups[pos].PackageIDs, *row.PackageID)
		}
	}

	for i := range groups {
		groups[i].PackageIDs = dedupe(groups[i].PackageIDs)
	}
	return groups
}

// Flatten expands groups back into pairwise rows. GroupBySubscription of
// the result reproduces the input groups, package-id order aside.
func Flatten(groups []Group) []models.SubscriptionPackageRow {
	rows := make([]models.SubscriptionPackageRow, 0, len(groups))
	for _, group := range groups {
		for _, packageID := range group.PackageIDs {
			id := packageID
			rows = append(rows, models.SubscriptionPackageRow{
				SubscriptionID: group.SubscriptionID,
				PackageID:      &id,
			})
		}
	}
	return rows
}

// UnmappedSubscriptions returns the subscriptions with no existing group,
// for the create picker. A subscription is never offered twice.
func UnmappedSubscriptions(all []models.Subscription, groups []Group) []models.Subscription {
	return unmapped(all, groups, 0)
}

// UnmappedSubscriptionsForEdit applies the same exclusion but re-admits
// the subscription whose group is being edited, so it does not vanish
// from its own edit form.
func UnmappedSubscriptionsForEdit(all []models.Subscription, groups []Group, editingID int64) []models.Subscription {
	return unmapped(all, groups, editingID)
}

func unmapped(all []models.Subscription, groups []Group, editingID int64) []models.Subscription {
	taken := make(map[int64]bool, len(groups))
	for _, group := range groups {
		taken[group.SubscriptionID] = true
	}

	out := make([]models.Subscription, 0, len(all))
	for _, sub := range all {
		if !taken[sub.ID] || sub.ID == editingID {
			out = append(out, sub)
		}
	}
	return out
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
