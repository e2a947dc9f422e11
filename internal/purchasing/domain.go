// Package purchasing implements the purchase order stage-progression workflow.
package purchasing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stage enumerates the lifecycle stages of a purchase order.
type Stage string

const (
	StageDraft         Stage = "DRAFT"
	StageIssued        Stage = "ISSUED"
	StageManufacturing Stage = "MANUFACTURING"
	StageOcean         Stage = "OCEAN"
	StageWarehouse     Stage = "WAREHOUSE"
	StageShipped       Stage = "SHIPPED"
	StageCancelled     Stage = "CANCELLED"
	StageRejected      Stage = "REJECTED"
)

// IsValid checks whether the stage is a known value.
func (s Stage) IsValid() bool {
	switch s {
	case StageDraft, StageIssued, StageManufacturing, StageOcean,
		StageWarehouse, StageShipped, StageCancelled, StageRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// OrderType classifies how the purchase order originated. Fixed at creation.
type OrderType string

const (
	TypePurchase    OrderType = "PURCHASE"
	TypeAdjustment  OrderType = "ADJUSTMENT"
	TypeFulfillment OrderType = "FULFILLMENT"
)

// IsValid checks whether the order type is a known value.
func (t OrderType) IsValid() bool {
	switch t {
	case TypePurchase, TypeAdjustment, TypeFulfillment:
		return true
	default:
		return false
	}
}

// LineStatus enumerates per-line posting states.
type LineStatus string

const (
	LineStatusPending   LineStatus = "PENDING"
	LineStatusPosted    LineStatus = "POSTED"
	LineStatusCancelled LineStatus = "CANCELLED"
)

// PurchaseOrder is the aggregate root for the staged workflow.
type PurchaseOrder struct {
	ID               int64
	OrderNumber      string
	Type             OrderType
	Status           Stage
	IsLegacy         bool
	CounterpartyName string
	ExpectedDate     *time.Time
	Incoterms        *string
	PaymentTerms     *string
	Notes            *string
	WarehouseCode    *string
	WarehouseName    *string
	Lines            []Line
	StageData        StageData
	ApprovalHistory  []StageApproval
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Line is a purchase order line. Lines are created with the order and mutated
// by posting/receiving operations outside this package.
type Line struct {
	ID          int64
	OrderID     int64
	SKU         string
	Batch       *string
	Quantity    float64
	PostedQty   float64
	ReceivedQty float64
	Status      LineStatus
	LineOrder   int
}

// StageApproval records a completed forward transition.
type StageApproval struct {
	ID         int64
	OrderID    int64
	Stage      Stage
	ApprovedBy *int64
	ApprovedAt *time.Time
}

// UploadedDocument is the read-only view of a stored document the engine needs
// for gating. File metadata is owned by the documents collaborator.
type UploadedDocument struct {
	Stage        Stage
	DocumentType string
}

// Attribute returns the order-level attribute value for the given field key,
// used by stages that gate on order attributes rather than stage-bag fields.
func (o PurchaseOrder) Attribute(key string) (string, bool) {
	switch key {
	case "expectedDate":
		if o.ExpectedDate != nil {
			return o.ExpectedDate.Format("2006-01-02"), true
		}
	case "incoterms":
		if o.Incoterms != nil && *o.Incoterms != "" {
			return *o.Incoterms, true
		}
	case "paymentTerms":
		if o.PaymentTerms != nil && *o.PaymentTerms != "" {
			return *o.PaymentTerms, true
		}
	case "counterpartyName":
		if o.CounterpartyName != "" {
			return o.CounterpartyName, true
		}
	}
	return "", false
}

// Sentinel errors shared across the package.
var (
	// ErrNotFound indicates the purchase order does not exist.
	ErrNotFound = errors.New("purchasing: purchase order not found")
	// ErrConflict indicates a concurrent update won the optimistic check.
	// The caller must retry the whole transition from a fresh read.
	ErrConflict = errors.New("purchasing: order modified concurrently")
	// ErrNotEditable indicates attribute edits outside DRAFT.
	ErrNotEditable = errors.New("purchasing: order attributes editable only in DRAFT")
	// ErrDuplicate indicates an order number collision.
	ErrDuplicate = errors.New("purchasing: duplicate order number")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("purchasing: invalid input")
)

// InvalidTransitionError reports an illegal stage edge.
type InvalidTransitionError struct {
	From Stage
	To   Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move to %s from %s", e.To, e.From)
}

// DocumentsIncompleteError lists required document labels with no upload.
type DocumentsIncompleteError struct {
	Stage   Stage
	Missing []string
}

func (e *DocumentsIncompleteError) Error() string {
	return fmt.Sprintf("missing documents for %s: %s", e.Stage, strings.Join(e.Missing, ", "))
}

// FieldsIncompleteError lists required field keys absent from both the
// supplied payload and the order's existing data.
type FieldsIncompleteError struct {
	Stage   Stage
	Missing []string
}

func (e *FieldsIncompleteError) Error() string {
	return fmt.Sprintf("missing fields for %s: %s", e.Stage, strings.Join(e.Missing, ", "))
}

// UnknownStageError indicates bad configuration or a stale client.
type UnknownStageError struct {
	Stage Stage
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("unknown stage %q", string(e.Stage))
}
