package purchasing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardWorkflowOrdering(t *testing.T) {
	w := StandardWorkflow()
	require.Equal(t, VariantStandard, w.Variant())

	next, ok := w.Next(StageDraft)
	require.True(t, ok)
	require.Equal(t, StageIssued, next)

	next, ok = w.Next(StageIssued)
	require.True(t, ok)
	require.Equal(t, StageManufacturing, next)

	_, ok = w.Next(StageWarehouse)
	require.False(t, ok)
	require.Equal(t, StageWarehouse, w.FinalStage())
	require.False(t, w.Contains(StageShipped))
	require.True(t, w.AllowsReject(StageIssued))
	require.False(t, w.AllowsReject(StageDraft))
}

func TestExpressWorkflowOrdering(t *testing.T) {
	w := ExpressWorkflow()
	require.Equal(t, VariantExpress, w.Variant())

	next, ok := w.Next(StageDraft)
	require.True(t, ok)
	require.Equal(t, StageManufacturing, next)

	require.Equal(t, StageShipped, w.FinalStage())
	require.False(t, w.Contains(StageIssued))
	require.False(t, w.AllowsReject(StageIssued))
}

func TestTerminalStages(t *testing.T) {
	std := StandardWorkflow()
	require.True(t, std.IsTerminal(StageCancelled))
	require.True(t, std.IsTerminal(StageRejected))
	require.True(t, std.IsTerminal(StageShipped))
	// Standard progression stops at WAREHOUSE but the order is handed off,
	// not finished: cancellation must remain possible.
	require.False(t, std.IsTerminal(StageWarehouse))
}

func TestWorkflowForFallsBackToStandard(t *testing.T) {
	require.Equal(t, VariantStandard, WorkflowFor(Variant("unknown")).Variant())
	require.Equal(t, VariantExpress, WorkflowFor(VariantExpress).Variant())
}

func TestStandardManufacturingRechecksIssuedAttributes(t *testing.T) {
	def, ok := StandardWorkflow().Definition(StageManufacturing)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"expectedDate", "incoterms", "paymentTerms"}, def.AttributeFields)

	def, ok = ExpressWorkflow().Definition(StageManufacturing)
	require.True(t, ok)
	require.Empty(t, def.AttributeFields)
}
