package purchasing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func actorRef(id int64) *int64 {
	return &id
}

func testNow() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func draftOrder() PurchaseOrder {
	return PurchaseOrder{
		ID:               1,
		OrderNumber:      "PO-1001",
		Type:             TypePurchase,
		Status:           StageDraft,
		CounterpartyName: "Hanwei Industrial",
	}
}

func issuedOrder() PurchaseOrder {
	o := draftOrder()
	o.Status = StageIssued
	expected := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	inco := "FOB"
	terms := "NET30"
	o.ExpectedDate = &expected
	o.Incoterms = &inco
	o.PaymentTerms = &terms
	o.ApprovalHistory = []StageApproval{{OrderID: 1, Stage: StageIssued}}
	return o
}

func manufacturingFields() map[string]string {
	return map[string]string{
		"productionStartDate": "2025-06-10",
		"estimatedReadyDate":  "2025-07-20",
	}
}

func oceanFields() map[string]string {
	return map[string]string{
		"vesselName":           "MV Meridian",
		"billOfLadingNumber":   "BL-4471",
		"departureDate":        "2025-07-25",
		"estimatedArrivalDate": "2025-08-30",
	}
}

func warehouseFields() map[string]string {
	return map[string]string{
		"warehouseCode":      "WH-OAK",
		"receivedDate":       "2025-09-02",
		"customsEntryNumber": "X1",
	}
}

func docsFor(stage Stage, types ...string) []UploadedDocument {
	docs := make([]UploadedDocument, 0, len(types))
	for _, t := range types {
		docs = append(docs, UploadedDocument{Stage: stage, DocumentType: t})
	}
	return docs
}

func TestForwardTransitionAppendsApproval(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := draftOrder()

	res, err := eng.Transition(order, TransitionRequest{
		Target: StageIssued,
		Fields: map[string]string{
			"expectedDate": "2025-09-01",
			"incoterms":    "FOB",
			"paymentTerms": "NET30",
		},
		Actor: actorRef(42),
		Now:   testNow(),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, StageIssued, res.Order.Status)
	require.Equal(t, TransitionForward, res.Kind)
	require.Len(t, res.Order.ApprovalHistory, 1)
	require.Equal(t, StageIssued, res.Order.ApprovalHistory[0].Stage)
	require.Equal(t, int64(42), *res.Order.ApprovalHistory[0].ApprovedBy)
	require.Equal(t, testNow(), *res.Order.ApprovalHistory[0].ApprovedAt)
	require.NotNil(t, res.Order.Incoterms)
	require.Equal(t, "FOB", *res.Order.Incoterms)

	// Input aggregate untouched.
	require.Equal(t, StageDraft, order.Status)
	require.Empty(t, order.ApprovalHistory)
}

func TestSkippingStagesRejected(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := draftOrder()

	for _, target := range []Stage{StageManufacturing, StageOcean, StageWarehouse} {
		_, err := eng.Transition(order, TransitionRequest{Target: target, Now: testNow()}, nil)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid, "target %s", target)
		require.Equal(t, StageDraft, invalid.From)
		require.Equal(t, target, invalid.To)
	}
}

func TestIssuedRequiresOrderAttributes(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := draftOrder()

	_, err := eng.Transition(order, TransitionRequest{Target: StageIssued, Now: testNow()}, nil)
	var fields *FieldsIncompleteError
	require.ErrorAs(t, err, &fields)
	require.Equal(t, StageIssued, fields.Stage)
	require.ElementsMatch(t, []string{"expectedDate", "incoterms", "paymentTerms"}, fields.Missing)
}

func TestIssuedAttributeGapsNamedExactly(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()
	order.Incoterms = nil

	_, err := eng.Transition(order, TransitionRequest{
		Target: StageManufacturing,
		Fields: manufacturingFields(),
		Now:    testNow(),
	}, docsFor(StageManufacturing, "proforma_invoice"))
	var fields *FieldsIncompleteError
	require.ErrorAs(t, err, &fields)
	require.Equal(t, StageManufacturing, fields.Stage)
	require.Equal(t, []string{"incoterms"}, fields.Missing)
	require.Equal(t, StageIssued, order.Status)
}

func TestDocumentGatingNamesMissingLabels(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()
	order.Status = StageManufacturing
	order.StageData = StageData{"manufacturing": manufacturingFields()}

	_, err := eng.Transition(order, TransitionRequest{
		Target: StageOcean,
		Fields: oceanFields(),
		Now:    testNow(),
	}, docsFor(StageOcean, "commercial_invoice"))
	var docs *DocumentsIncompleteError
	require.ErrorAs(t, err, &docs)
	require.Equal(t, StageOcean, docs.Stage)
	require.Equal(t, []string{"Packing List", "Bill Of Lading"}, docs.Missing)
}

func TestDocumentAliasesSatisfyRequirement(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()
	order.Status = StageManufacturing

	uploaded := docsFor(StageOcean, "commercialInvoice", "packingList", "bol")
	res, err := eng.Transition(order, TransitionRequest{
		Target: StageOcean,
		Fields: oceanFields(),
		Now:    testNow(),
	}, uploaded)
	require.NoError(t, err)
	require.Equal(t, StageOcean, res.Order.Status)
}

func TestDocumentsForWrongStageDoNotCount(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()
	order.Status = StageManufacturing

	uploaded := docsFor(StageManufacturing, "commercial_invoice", "packing_list", "bill_of_lading")
	_, err := eng.Transition(order, TransitionRequest{
		Target: StageOcean,
		Fields: oceanFields(),
		Now:    testNow(),
	}, uploaded)
	var docs *DocumentsIncompleteError
	require.ErrorAs(t, err, &docs)
	require.Len(t, docs.Missing, 3)
}

func TestStageDataMonotonicAcrossTransitions(t *testing.T) {
	eng := NewEngine(ExpressWorkflow())
	order := draftOrder()

	res, err := eng.Transition(order, TransitionRequest{
		Target: StageManufacturing,
		Fields: manufacturingFields(),
		Actor:  actorRef(7),
		Now:    testNow(),
	}, docsFor(StageManufacturing, "proforma_invoice"))
	require.NoError(t, err)

	res, err = eng.Transition(res.Order, TransitionRequest{
		Target: StageOcean,
		Fields: oceanFields(),
		Actor:  actorRef(7),
		Now:    testNow(),
	}, docsFor(StageOcean, "commercial_invoice", "packing_list", "bill_of_lading"))
	require.NoError(t, err)

	res, err = eng.Transition(res.Order, TransitionRequest{
		Target: StageWarehouse,
		Fields: warehouseFields(),
		Actor:  actorRef(8),
		Now:    testNow(),
	}, docsFor(StageWarehouse, "customs_declaration", "delivery_order"))
	require.NoError(t, err)

	// Prior-stage bags survive every advance.
	require.Equal(t, "MV Meridian", res.Order.StageData["ocean"]["vesselName"])
	require.Equal(t, "2025-06-10", res.Order.StageData["manufacturing"]["productionStartDate"])
	require.Equal(t, "X1", res.Order.StageData["warehouse"]["customsEntryNumber"])
	require.NotNil(t, res.Order.WarehouseCode)
	require.Equal(t, "WH-OAK", *res.Order.WarehouseCode)
	require.Len(t, res.Order.ApprovalHistory, 3)
}

func TestWarehouseToShippedKeepsWarehouseData(t *testing.T) {
	eng := NewEngine(ExpressWorkflow())
	order := draftOrder()
	order.Status = StageWarehouse
	order.StageData = StageData{"warehouse": {"customsEntryNumber": "X1"}}

	res, err := eng.Transition(order, TransitionRequest{
		Target: StageShipped,
		Fields: map[string]string{"trackingNumber": "T1"},
		Actor:  actorRef(5),
		Now:    testNow(),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, StageShipped, res.Order.Status)
	require.Equal(t, "X1", res.Order.StageData["warehouse"]["customsEntryNumber"])
	require.Equal(t, "T1", res.Order.StageData["shipped"]["trackingNumber"])
	require.Len(t, res.Order.ApprovalHistory, 1)
	require.Equal(t, StageShipped, res.Order.ApprovalHistory[0].Stage)
}

func TestShippedIsTerminal(t *testing.T) {
	eng := NewEngine(ExpressWorkflow())
	order := draftOrder()
	order.Status = StageShipped
	order.StageData = StageData{"shipped": {"trackingNumber": "T1"}}

	for _, target := range []Stage{StageManufacturing, StageOcean, StageWarehouse, StageShipped, StageCancelled} {
		_, err := eng.Transition(order, TransitionRequest{Target: target, Now: testNow()}, nil)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid, "target %s", target)
	}
	// Rejected requests leave stage data alone.
	require.Equal(t, "T1", order.StageData["shipped"]["trackingNumber"])
}

func TestCancelFromAnyNonTerminalStage(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	for _, from := range []Stage{StageDraft, StageIssued, StageManufacturing, StageOcean, StageWarehouse} {
		order := draftOrder()
		order.Status = from
		res, err := eng.Transition(order, TransitionRequest{Target: StageCancelled, Actor: actorRef(3), Now: testNow()}, nil)
		require.NoError(t, err, "from %s", from)
		require.Equal(t, StageCancelled, res.Order.Status)
		require.Equal(t, TransitionCancel, res.Kind)
		// Side exits are not completed stages.
		require.Empty(t, res.Order.ApprovalHistory)
	}
}

func TestRejectOnlyFromIssued(t *testing.T) {
	eng := NewEngine(StandardWorkflow())

	order := issuedOrder()
	res, err := eng.Transition(order, TransitionRequest{Target: StageRejected, Actor: actorRef(3), Now: testNow()}, nil)
	require.NoError(t, err)
	require.Equal(t, TransitionReject, res.Kind)
	require.Equal(t, StageRejected, res.Order.Status)

	other := draftOrder()
	other.Status = StageManufacturing
	_, err = eng.Transition(other, TransitionRequest{Target: StageRejected, Now: testNow()}, nil)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestRejectUnavailableInExpressVariant(t *testing.T) {
	eng := NewEngine(ExpressWorkflow())
	order := draftOrder()
	_, err := eng.Transition(order, TransitionRequest{Target: StageRejected, Now: testNow()}, nil)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestReopenRestoresDraftWithoutApprovalEntry(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()
	order.Status = StageRejected
	order.StageData = StageData{"manufacturing": {"productionStartDate": "2025-06-10"}}

	res, err := eng.Transition(order, TransitionRequest{Target: StageDraft, Actor: actorRef(9), Now: testNow()}, nil)
	require.NoError(t, err)
	require.Equal(t, TransitionReopen, res.Kind)
	require.Equal(t, StageDraft, res.Order.Status)
	require.Nil(t, res.Approval)
	// Regression never clears accumulated data or history.
	require.Equal(t, "2025-06-10", res.Order.StageData["manufacturing"]["productionStartDate"])
	require.Len(t, res.Order.ApprovalHistory, len(order.ApprovalHistory))

	_, err = eng.Transition(order, TransitionRequest{Target: StageIssued, Now: testNow()}, nil)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestLegacyOrdersBypassGating(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := draftOrder()
	order.IsLegacy = true

	res, err := eng.Transition(order, TransitionRequest{Target: StageIssued, Actor: actorRef(2), Now: testNow()}, nil)
	require.NoError(t, err)
	require.Equal(t, StageIssued, res.Order.Status)

	// Edges still apply even for legacy orders.
	_, err = eng.Transition(res.Order, TransitionRequest{Target: StageWarehouse, Now: testNow()}, nil)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestUnknownTargetStage(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := draftOrder()
	_, err := eng.Transition(order, TransitionRequest{Target: Stage("ARCHIVED"), Now: testNow()}, nil)
	var unknown *UnknownStageError
	require.ErrorAs(t, err, &unknown)
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestFailedTransitionLeavesHistoryLength(t *testing.T) {
	eng := NewEngine(StandardWorkflow())
	order := issuedOrder()

	_, err := eng.Transition(order, TransitionRequest{Target: StageManufacturing, Now: testNow()}, nil)
	require.Error(t, err)
	require.Len(t, order.ApprovalHistory, 1)

	res, err := eng.Transition(order, TransitionRequest{
		Target: StageManufacturing,
		Fields: manufacturingFields(),
		Actor:  actorRef(11),
		Now:    testNow(),
	}, docsFor(StageManufacturing, "proformaInvoice"))
	require.NoError(t, err)
	require.Len(t, res.Order.ApprovalHistory, 2)
}
