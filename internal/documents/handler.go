package documents

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/seaboard-ops/seaboard/internal/platform/httpx"
	"github.com/seaboard-ops/seaboard/internal/purchasing"
)

// Handler exposes document metadata over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers document routes on the purchase-orders subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/documents", h.list)
	r.Post("/{id}/documents", h.register)
	r.Delete("/{id}/documents/{docID}", h.remove)
}

// RegisterRequest records an externally stored upload.
type RegisterRequest struct {
	Stage        purchasing.Stage `json:"stage" validate:"required"`
	DocumentType string           `json:"documentType" validate:"required,max=100"`
	FileName     string           `json:"fileName" validate:"required,max=255"`
	ContentType  string           `json:"contentType" validate:"omitempty,max=100"`
	SizeBytes    int64            `json:"sizeBytes" validate:"omitempty,gte=0"`
}

// DocumentResponse is one document in API form.
type DocumentResponse struct {
	ID           int64            `json:"id"`
	Stage        purchasing.Stage `json:"stage"`
	DocumentType string           `json:"documentType"`
	FileName     string           `json:"fileName"`
	ContentType  string           `json:"contentType,omitempty"`
	SizeBytes    int64            `json:"sizeBytes"`
	UploadedBy   *int64           `json:"uploadedBy"`
	UploadedAt   time.Time        `json:"uploadedAt"`
}

func toDocumentResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		Stage:        d.Stage,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		UploadedAt:   d.UploadedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	docs, err := h.service.List(r.Context(), orderID)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err), slog.Int64("order_id", orderID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Register(r.Context(), Document{
		OrderID:      orderID,
		Stage:        req.Stage,
		DocumentType: req.DocumentType,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("register document", slog.Any("error", err), slog.Int64("order_id", orderID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	docID, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return
	}
	if err := h.service.Remove(r.Context(), orderID, docID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "document not found")
			return
		}
		h.logger.Error("remove document", slog.Any("error", err), slog.Int64("order_id", orderID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
