package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestGroupBySubscriptionMergesAllRowShapes(t *testing.T) {
	rows := []models.SubscriptionPackageRow{
		{ID: 1, SubscriptionID: 10, PackageID: int64Ptr(100)},
		{ID: 2, SubscriptionID: 10, PackageID: int64Ptr(101)},
		{ID: 3, SubscriptionID: 11, PackageIDs: models.PackageIDList{200, 201}},
		{ID: 4, SubscriptionID: 10, PackageIDs: models.PackageIDList{101, 102}},
	}

	groups := GroupBySubscription(rows)

	require.Len(t, groups, 2)
	assert.Equal(t, Group{SubscriptionID: 10, PackageIDs: []int64{100, 101, 102}}, groups[0])
	assert.Equal(t, Group{SubscriptionID: 11, PackageIDs: []int64{200, 201}}, groups[1])
}

func TestAllThreeWireShapesProduceTheSameGroup(t *testing.T) {
	payloads := []string{
		`[{"id": 1, "subscription_id": 5, "package_id": 7}, {"id": 2, "subscription_id": 5, "package_id": 8}]`,
		`[{"id": 3, "subscription_id": 5, "package_ids": [7, 8]}]`,
		`[{"id": 4, "subscription_id": 5, "package_ids": "[7, 8]"}]`,
	}

	for _, payload := range payloads {
		var rows []models.SubscriptionPackageRow
		require.NoError(t, json.Unmarshal([]byte(payload), &rows), payload)

		groups := GroupBySubscription(rows)
		require.Len(t, groups, 1, payload)
		assert.Equal(t, Group{SubscriptionID: 5, PackageIDs: []int64{7, 8}}, groups[0], payload)
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	groups := []Group{
		{SubscriptionID: 1, PackageIDs: []int64{100, 101}},
		{SubscriptionID: 2, PackageIDs: []int64{200}},
	}

	rows := Flatten(groups)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.NotNil(t, row.PackageID)
	}

	assert.Equal(t, groups, GroupBySubscription(rows))
}

func TestUnmappedSubscriptionPickers(t *testing.T) {
	all := []models.Subscription{
		{ID: 1, Name: "Starter"},
		{ID: 2, Name: "Premium"},
		{ID: 3, Name: "Enterprise"},
	}
	groups := []Group{
		{SubscriptionID: 1, PackageIDs: []int64{100, 101}},
	}

	create := UnmappedSubscriptions(all, groups)
	require.Len(t, create, 2)
	assert.Equal(t, int64(2), create[0].ID)
	assert.Equal(t, int64(3), create[1].ID)

	// The subscription being edited stays available to its own form.
	edit := UnmappedSubscriptionsForEdit(all, groups, 1)
	require.Len(t, edit, 3)
	assert.Equal(t, int64(1), edit[0].ID)
}

func TestGroupBySubscriptionEmptyAndDuplicateIDs(t *testing.T) {
	groups := GroupBySubscription(nil)
	assert.Empty(t, groups)

	rows := []models.SubscriptionPackageRow{
		{ID: 1, SubscriptionID: 4, PackageIDs: models.PackageIDList{9, 9, 9}},
	}
	groups = GroupBySubscription(rows)
	require.Len(t, groups, 1)
	assert.Equal(t, []int64{9}, groups[0].PackageIDs)
}
