package purchasing

import "time"

// CreateRequest creates a DRAFT purchase order with its lines.
type CreateRequest struct {
	OrderNumber      string          `json:"orderNumber" validate:"omitempty,max=50"`
	Type             OrderType       `json:"type" validate:"required,oneof=PURCHASE ADJUSTMENT FULFILLMENT"`
	CounterpartyName string          `json:"counterpartyName" validate:"required,max=200"`
	ExpectedDate     *time.Time      `json:"expectedDate,omitempty"`
	Incoterms        *string         `json:"incoterms,omitempty" validate:"omitempty,max=20"`
	PaymentTerms     *string         `json:"paymentTerms,omitempty" validate:"omitempty,max=50"`
	Notes            *string         `json:"notes,omitempty"`
	Lines            []CreateLineReq `json:"lines" validate:"required,min=1,dive"`
}

// CreateLineReq is a line item in a create request.
type CreateLineReq struct {
	SKU      string  `json:"sku" validate:"required,max=64"`
	Batch    *string `json:"batch,omitempty" validate:"omitempty,max=64"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// UpdateDraftRequest edits order attributes. Permitted only in DRAFT.
type UpdateDraftRequest struct {
	CounterpartyName *string    `json:"counterpartyName,omitempty" validate:"omitempty,max=200"`
	ExpectedDate     *time.Time `json:"expectedDate,omitempty"`
	Incoterms        *string    `json:"incoterms,omitempty" validate:"omitempty,max=20"`
	PaymentTerms     *string    `json:"paymentTerms,omitempty" validate:"omitempty,max=50"`
	Notes            *string    `json:"notes,omitempty"`
}

// StageRequest asks for a transition to targetStatus, carrying the
// stage-specific field bag.
type StageRequest struct {
	TargetStatus Stage             `json:"targetStatus" validate:"required"`
	StageData    map[string]string `json:"stageData,omitempty"`
}

// ListFilters narrows List results.
type ListFilters struct {
	Status Stage
	Type   OrderType
	Search string
}

// OrderResponse is the full aggregate returned by every read and by a
// successful transition.
type OrderResponse struct {
	ID               int64              `json:"id"`
	OrderNumber      string             `json:"orderNumber"`
	Type             OrderType          `json:"type"`
	Status           Stage              `json:"status"`
	IsLegacy         bool               `json:"isLegacy"`
	CounterpartyName string             `json:"counterpartyName"`
	ExpectedDate     *time.Time         `json:"expectedDate,omitempty"`
	Incoterms        *string            `json:"incoterms,omitempty"`
	PaymentTerms     *string            `json:"paymentTerms,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	WarehouseCode    *string            `json:"warehouseCode,omitempty"`
	WarehouseName    *string            `json:"warehouseName,omitempty"`
	Lines            []LineResponse     `json:"lines"`
	StageData        StageData          `json:"stageData"`
	ApprovalHistory  []ApprovalResponse `json:"approvalHistory"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// LineResponse is a purchase order line in API form.
type LineResponse struct {
	ID          int64      `json:"id"`
	SKU         string     `json:"sku"`
	Batch       *string    `json:"batch,omitempty"`
	Quantity    float64    `json:"quantity"`
	PostedQty   float64    `json:"postedQty"`
	ReceivedQty float64    `json:"receivedQty"`
	Status      LineStatus `json:"status"`
}

// ApprovalResponse is one approval history entry in API form.
type ApprovalResponse struct {
	Stage      Stage      `json:"stage"`
	ApprovedBy *int64     `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

// ListResponse pages order summaries.
type ListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toOrderResponse(o PurchaseOrder) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Type:             o.Type,
		Status:           o.Status,
		IsLegacy:         o.IsLegacy,
		CounterpartyName: o.CounterpartyName,
		ExpectedDate:     o.ExpectedDate,
		Incoterms:        o.Incoterms,
		PaymentTerms:     o.PaymentTerms,
		Notes:            o.Notes,
		WarehouseCode:    o.WarehouseCode,
		WarehouseName:    o.WarehouseName,
		StageData:        o.StageData,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if resp.StageData == nil {
		resp.StageData = StageData{}
	}
	resp.Lines = make([]LineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			ID:          l.ID,
			SKU:         l.SKU,
			Batch:       l.Batch,
			Quantity:    l.Quantity,
			PostedQty:   l.PostedQty,
			ReceivedQty: l.ReceivedQty,
			Status:      l.Status,
		})
	}
	resp.ApprovalHistory = make([]ApprovalResponse, 0, len(o.ApprovalHistory))
	for _, a := range o.ApprovalHistory {
		resp.ApprovalHistory = append(resp.ApprovalHistory, ApprovalResponse{
			Stage:      a.Stage,
			ApprovedBy: a.ApprovedBy,
			ApprovedAt: a.ApprovedAt,
		})
	}
	return resp
}
