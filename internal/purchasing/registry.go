package purchasing

// DocRequirement is one required document slot for a stage. A slot is
// satisfied when at least one uploaded document for the stage carries the
// canonical key or any of its accepted aliases. Aliases are synonyms for the
// same logical requirement, not additional requirements.
type DocRequirement struct {
	Key     string
	Label   string
	Aliases []string
}

// StageDefinition carries the gating metadata for a single stage.
type StageDefinition struct {
	Stage Stage
	Label string

	// RequiredFields must be present in the stage's accumulated bag or the
	// supplied payload before entering the stage.
	RequiredFields []string

	// AttributeFields are order-level attributes (not stage-bag fields) that
	// must be set before entering the stage. Used by ISSUED.
	AttributeFields []string

	RequiredDocs []DocRequirement
}

// Variant selects which edge set is active. Both are legitimate deployments
// of the same mechanism; the choice is configuration, not code.
type Variant string

const (
	// VariantStandard runs DRAFT→ISSUED→MANUFACTURING→OCEAN→WAREHOUSE and
	// defers shipping to a downstream workflow. REJECTED is reachable from
	// ISSUED.
	VariantStandard Variant = "standard"
	// VariantExpress omits ISSUED/REJECTED and ships directly from
	// WAREHOUSE with inline shipping fields.
	VariantExpress Variant = "express"
)

// Workflow is an ordered stage list plus the side-exit rules around it.
type Workflow struct {
	variant Variant
	stages  []StageDefinition
	index   map[Stage]int
}

func issuedDef() StageDefinition {
	return StageDefinition{
		Stage:           StageIssued,
		Label:           "Issued",
		AttributeFields: []string{"expectedDate", "incoterms", "paymentTerms"},
	}
}

func manufacturingDef() StageDefinition {
	return StageDefinition{
		Stage:          StageManufacturing,
		Label:          "Manufacturing",
		RequiredFields: []string{"productionStartDate", "estimatedReadyDate"},
		RequiredDocs: []DocRequirement{
			{Key: "proforma_invoice", Aliases: []string{"proformaInvoice"}},
		},
	}
}

func oceanDef() StageDefinition {
	return StageDefinition{
		Stage:          StageOcean,
		Label:          "Ocean",
		RequiredFields: []string{"vesselName", "billOfLadingNumber", "departureDate", "estimatedArrivalDate"},
		RequiredDocs: []DocRequirement{
			{Key: "commercial_invoice", Aliases: []string{"commercialInvoice"}},
			{Key: "packing_list", Aliases: []string{"packingList"}},
			{Key: "bill_of_lading", Aliases: []string{"billOfLading", "bol"}},
		},
	}
}

func warehouseDef() StageDefinition {
	return StageDefinition{
		Stage:          StageWarehouse,
		Label:          "Warehouse",
		RequiredFields: []string{"warehouseCode", "receivedDate", "customsEntryNumber"},
		RequiredDocs: []DocRequirement{
			{Key: "customs_declaration", Aliases: []string{"customsDeclaration"}},
			{Key: "delivery_order", Aliases: []string{"deliveryOrder"}},
		},
	}
}

func shippedDef() StageDefinition {
	// Shipping gates on nothing; tracking data is optional.
	return StageDefinition{Stage: StageShipped, Label: "Shipped"}
}

func newWorkflow(variant Variant, stages []StageDefinition) Workflow {
	idx := make(map[Stage]int, len(stages))
	for i, def := range stages {
		idx[def.Stage] = i
	}
	return Workflow{variant: variant, stages: stages, index: idx}
}

// StandardWorkflow returns the issued/rejected edge set that stops at
// WAREHOUSE.
func StandardWorkflow() Workflow {
	mfg := manufacturingDef()
	// Leaving ISSUED re-checks the commercial attributes: an order issued
	// before the attributes were cleared must not start manufacturing.
	mfg.AttributeFields = issuedDef().AttributeFields
	return newWorkflow(VariantStandard, []StageDefinition{
		{Stage: StageDraft, Label: "Draft"},
		issuedDef(),
		mfg,
		oceanDef(),
		warehouseDef(),
	})
}

// ExpressWorkflow returns the five-stage edge set that ships directly.
func ExpressWorkflow() Workflow {
	return newWorkflow(VariantExpress, []StageDefinition{
		{Stage: StageDraft, Label: "Draft"},
		manufacturingDef(),
		oceanDef(),
		warehouseDef(),
		shippedDef(),
	})
}

// WorkflowFor resolves a configured variant name. Unknown names fall back to
// the standard workflow.
func WorkflowFor(variant Variant) Workflow {
	if variant == VariantExpress {
		return ExpressWorkflow()
	}
	return StandardWorkflow()
}

// Variant reports the active edge set.
func (w Workflow) Variant() Variant {
	return w.variant
}

// Definition returns the stage definition for a forward stage.
func (w Workflow) Definition(stage Stage) (StageDefinition, bool) {
	i, ok := w.index[stage]
	if !ok {
		return StageDefinition{}, false
	}
	return w.stages[i], true
}

// Next returns the immediate successor of the given stage in the forward
// progression, if any.
func (w Workflow) Next(stage Stage) (Stage, bool) {
	i, ok := w.index[stage]
	if !ok || i+1 >= len(w.stages) {
		return "", false
	}
	return w.stages[i+1].Stage, true
}

// Contains reports whether the stage participates in the forward progression.
func (w Workflow) Contains(stage Stage) bool {
	_, ok := w.index[stage]
	return ok
}

// FinalStage returns the last forward stage of the progression.
func (w Workflow) FinalStage() Stage {
	return w.stages[len(w.stages)-1].Stage
}

// IsTerminal reports whether the stage accepts no further transitions of any
// kind except a reopen. The standard workflow's WAREHOUSE is not terminal:
// its progression stops there but the order is handed off downstream and can
// still be cancelled.
func (w Workflow) IsTerminal(stage Stage) bool {
	return stage == StageCancelled || stage == StageRejected || stage == StageShipped
}

// AllowsReject reports whether REJECTED is reachable from the given stage.
func (w Workflow) AllowsReject(from Stage) bool {
	return w.variant == VariantStandard && from == StageIssued
}
