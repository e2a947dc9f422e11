package purchasing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeAddsAndOverwritesWithoutClearing(t *testing.T) {
	existing := StageData{
		"warehouse": {"customsEntryNumber": "X1", "receivedDate": "2025-09-02"},
	}

	merged, err := existing.Merge("warehouse", map[string]string{
		"customsEntryNumber": "X2",
		"warehouseCode":      "WH-OAK",
	})
	require.NoError(t, err)
	require.Equal(t, "X2", merged["warehouse"]["customsEntryNumber"])
	require.Equal(t, "WH-OAK", merged["warehouse"]["warehouseCode"])
	require.Equal(t, "2025-09-02", merged["warehouse"]["receivedDate"])

	// Source untouched.
	require.Equal(t, "X1", existing["warehouse"]["customsEntryNumber"])
	require.NotContains(t, existing["warehouse"], "warehouseCode")
}

func TestMergeLeavesOtherNamespacesAlone(t *testing.T) {
	existing := StageData{"ocean": {"vesselName": "MV Meridian"}}

	merged, err := existing.Merge("shipped", map[string]string{"trackingNumber": "T1"})
	require.NoError(t, err)
	require.Equal(t, "MV Meridian", merged["ocean"]["vesselName"])
	require.Equal(t, "T1", merged["shipped"]["trackingNumber"])
}

func TestMergeIntoNilStageData(t *testing.T) {
	var existing StageData

	merged, err := existing.Merge("manufacturing", map[string]string{"productionStartDate": "2025-06-10"})
	require.NoError(t, err)
	require.Equal(t, "2025-06-10", merged["manufacturing"]["productionStartDate"])
	require.Nil(t, existing)
}

func TestMergeRejectsUnknownStageKey(t *testing.T) {
	existing := StageData{}

	_, err := existing.Merge("draft", map[string]string{"x": "y"})
	var unknown *UnknownStageError
	require.ErrorAs(t, err, &unknown)

	_, err = existing.Merge("returns", nil)
	require.ErrorAs(t, err, &unknown)
}

func TestStageKeyMapping(t *testing.T) {
	for stage, want := range map[Stage]string{
		StageManufacturing: "manufacturing",
		StageOcean:         "ocean",
		StageWarehouse:     "warehouse",
		StageShipped:       "shipped",
	} {
		key, ok := StageKey(stage)
		require.True(t, ok)
		require.Equal(t, want, key)
	}
	for _, stage := range []Stage{StageDraft, StageIssued, StageCancelled, StageRejected} {
		_, ok := StageKey(stage)
		require.False(t, ok)
	}
}
