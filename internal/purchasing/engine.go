package purchasing

import (
	"time"
)

// TransitionKind classifies the edge a successful transition took.
type TransitionKind string

const (
	// TransitionForward advances one step along the active stage list.
	TransitionForward TransitionKind = "FORWARD"
	// TransitionCancel takes the CANCELLED side exit.
	TransitionCancel TransitionKind = "CANCEL"
	// TransitionReject takes the REJECTED side exit (standard variant only).
	TransitionReject TransitionKind = "REJECT"
	// TransitionReopen returns a cancelled/rejected order to DRAFT. It is an
	// administrative action, not a completed stage.
	TransitionReopen TransitionKind = "REOPEN"
)

// TransitionRequest is a caller's request to move an order to a target stage.
type TransitionRequest struct {
	Target Stage
	Fields map[string]string
	Actor  *int64
	Now    time.Time
}

// TransitionResult is the outcome of a successful transition: the updated
// aggregate plus what happened, so callers can audit and notify.
type TransitionResult struct {
	Order PurchaseOrder
	Kind  TransitionKind
	// Approval is the history entry appended for forward transitions; nil
	// for cancel/reject/reopen.
	Approval *StageApproval
}

// Engine validates and applies stage transitions against a configured
// workflow. It is a pure function of its inputs; persistence and document
// lookups belong to the caller.
type Engine struct {
	workflow Workflow
}

// NewEngine builds an engine over the given workflow.
func NewEngine(workflow Workflow) *Engine {
	return &Engine{workflow: workflow}
}

// Workflow exposes the active edge set.
func (e *Engine) Workflow() Workflow {
	return e.workflow
}

// Transition validates the requested transition and, if legal, returns the
// updated order. The input order is not mutated; on error the returned
// result is zero and the caller's aggregate is unchanged.
//
// Validation order: terminal check, edge check, then for forward transitions
// document completeness followed by field completeness. Legacy orders skip
// the completeness checks but still follow the edges.
func (e *Engine) Transition(order PurchaseOrder, req TransitionRequest, uploaded []UploadedDocument) (TransitionResult, error) {
	if !req.Target.IsValid() {
		return TransitionResult{}, &UnknownStageError{Stage: req.Target}
	}

	kind, ok := e.classify(order.Status, req.Target)
	if !ok {
		return TransitionResult{}, &InvalidTransitionError{From: order.Status, To: req.Target}
	}

	if kind == TransitionForward && !order.IsLegacy {
		def, ok := e.workflow.Definition(req.Target)
		if !ok {
			return TransitionResult{}, &UnknownStageError{Stage: req.Target}
		}
		if missing := CheckDocuments(req.Target, def.RequiredDocs, uploaded); len(missing) > 0 {
			return TransitionResult{}, &DocumentsIncompleteError{Stage: req.Target, Missing: missing}
		}
		if missing := e.missingFields(order, def, req.Fields); len(missing) > 0 {
			return TransitionResult{}, &FieldsIncompleteError{Stage: req.Target, Missing: missing}
		}
	}

	updated := order
	updated.StageData = order.StageData.Clone()
	updated.ApprovalHistory = append([]StageApproval(nil), order.ApprovalHistory...)

	if kind == TransitionForward {
		if def, ok := e.workflow.Definition(req.Target); ok {
			applyAttributes(&updated, def.AttributeFields, req.Fields)
		}
	}

	if key, hasBag := StageKey(req.Target); hasBag && kind == TransitionForward {
		merged, err := updated.StageData.Merge(key, req.Fields)
		if err != nil {
			return TransitionResult{}, err
		}
		updated.StageData = merged
		if req.Target == StageWarehouse {
			if code, ok := merged.Field(key, "warehouseCode"); ok {
				updated.WarehouseCode = &code
			}
		}
	}

	updated.Status = req.Target

	result := TransitionResult{Order: updated, Kind: kind}
	if kind == TransitionForward {
		at := req.Now
		approval := StageApproval{
			OrderID:    order.ID,
			Stage:      req.Target,
			ApprovedBy: req.Actor,
			ApprovedAt: &at,
		}
		updated.ApprovalHistory = append(updated.ApprovalHistory, approval)
		result.Order = updated
		result.Approval = &approval
	}
	return result, nil
}

// classify resolves the edge kind for a (from, target) pair, or reports the
// pair illegal.
func (e *Engine) classify(from, target Stage) (TransitionKind, bool) {
	// Reopen is the only edge out of a terminal stage.
	if from == StageCancelled || from == StageRejected {
		if target == StageDraft {
			return TransitionReopen, true
		}
		return "", false
	}
	if e.workflow.IsTerminal(from) {
		return "", false
	}
	if target == StageCancelled {
		return TransitionCancel, true
	}
	if target == StageRejected {
		if e.workflow.AllowsReject(from) {
			return TransitionReject, true
		}
		return "", false
	}
	next, ok := e.workflow.Next(from)
	if ok && next == target {
		return TransitionForward, true
	}
	return "", false
}

// applyAttributes writes supplied attribute-level values onto the order
// columns so a transition payload can complete ISSUED requirements in the
// same request that enters the stage.
func applyAttributes(order *PurchaseOrder, attributeFields []string, supplied map[string]string) {
	for _, field := range attributeFields {
		v, ok := supplied[field]
		if !ok || v == "" {
			continue
		}
		switch field {
		case "expectedDate":
			if t, err := time.Parse("2006-01-02", v); err == nil {
				order.ExpectedDate = &t
			}
		case "incoterms":
			val := v
			order.Incoterms = &val
		case "paymentTerms":
			val := v
			order.PaymentTerms = &val
		}
	}
}

// missingFields computes required fields for the target stage absent from
// the combined existing stage data, supplied payload, and order attributes.
func (e *Engine) missingFields(order PurchaseOrder, def StageDefinition, supplied map[string]string) []string {
	var missing []string
	for _, field := range def.AttributeFields {
		if v, ok := supplied[field]; ok && v != "" {
			continue
		}
		if _, ok := order.Attribute(field); !ok {
			missing = append(missing, field)
		}
	}
	key, hasBag := StageKey(def.Stage)
	for _, field := range def.RequiredFields {
		if v, ok := supplied[field]; ok && v != "" {
			continue
		}
		if hasBag {
			if _, ok := order.StageData.Field(key, field); ok {
				continue
			}
		}
		if _, ok := order.Attribute(field); ok {
			continue
		}
		missing = append(missing, field)
	}
	return missing
}
