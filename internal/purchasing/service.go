package purchasing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seaboard-ops/seaboard/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetOrder(ctx context.Context, id int64) (PurchaseOrder, error)
	ListOrders(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateOrder(ctx context.Context, order PurchaseOrder) (int64, error)
	InsertLine(ctx context.Context, line Line) error
	// UpdateOrderStage persists status, stage data, warehouse assignment and
	// the attribute columns in one statement guarded by the version check.
	// Returns ErrConflict when another writer got there first.
	UpdateOrderStage(ctx context.Context, order PurchaseOrder) error
	UpdateDraftAttributes(ctx context.Context, order PurchaseOrder) error
	InsertApproval(ctx context.Context, approval StageApproval) (int64, error)
}

// DocumentsPort is the read-only view of the document storage collaborator.
type DocumentsPort interface {
	ListForOrder(ctx context.Context, orderID int64) ([]UploadedDocument, error)
}

// AuditPort records workflow actions for the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the stage-progression workflow around the pure
// engine: loads state, runs the transition, persists all three effects in
// one transaction.
type Service struct {
	repo        RepositoryPort
	documents   DocumentsPort
	engine      *Engine
	audit       AuditPort
	notifier    NotifierPort
	idempotency *shared.IdempotencyStore
	cache       *Cache
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the purchasing service. Audit, notifier, idempotency
// and cache are optional.
func NewService(repo RepositoryPort, documents DocumentsPort, engine *Engine, audit AuditPort, notifier NotifierPort, idem *shared.IdempotencyStore, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		documents:   documents,
		engine:      engine,
		audit:       audit,
		notifier:    notifier,
		idempotency: idem,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

// Create persists a new DRAFT order with its lines.
func (s *Service) Create(ctx context.Context, input CreateRequest) (PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: at least one line required", ErrValidation)
	}
	if !input.Type.IsValid() {
		return PurchaseOrder{}, fmt.Errorf("%w: unknown order type %q", ErrValidation, input.Type)
	}
	number := input.OrderNumber
	if number == "" {
		number = generateNumber("PO")
	}
	order := PurchaseOrder{
		OrderNumber:      number,
		Type:             input.Type,
		Status:           StageDraft,
		CounterpartyName: input.CounterpartyName,
		ExpectedDate:     input.ExpectedDate,
		Incoterms:        input.Incoterms,
		PaymentTerms:     input.PaymentTerms,
		Notes:            input.Notes,
		StageData:        StageData{},
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id
		for i, line := range input.Lines {
			if line.Quantity <= 0 {
				return fmt.Errorf("%w: line %d quantity must be positive", ErrValidation, i+1)
			}
			if err := tx.InsertLine(ctx, Line{
				OrderID:   id,
				SKU:       line.SKU,
				Batch:     line.Batch,
				Quantity:  line.Quantity,
				Status:    LineStatusPending,
				LineOrder: i,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, "PO_CREATE", order.ID, nil, map[string]any{"number": order.OrderNumber})
	return s.repo.GetOrder(ctx, order.ID)
}

// Get returns the full aggregate, serving from cache when possible.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	if order, ok := s.cache.GetOrder(ctx, id); ok {
		return order, nil
	}
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if err := s.cache.SetOrder(ctx, order); err != nil {
		s.logger.Warn("cache order", slog.Any("error", err))
	}
	return order, nil
}

// List returns order aggregates matching the filters.
func (s *Service) List(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOrders(ctx, limit, offset, filters)
}

// UpdateDraft applies attribute edits. Rejected unless the order is in
// DRAFT, regardless of what the caller's UI showed.
func (s *Service) UpdateDraft(ctx context.Context, id int64, input UpdateDraftRequest, actor *int64) (PurchaseOrder, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if order.Status != StageDraft {
		return PurchaseOrder{}, ErrNotEditable
	}
	if input.CounterpartyName != nil {
		order.CounterpartyName = *input.CounterpartyName
	}
	if input.ExpectedDate != nil {
		order.ExpectedDate = input.ExpectedDate
	}
	if input.Incoterms != nil {
		order.Incoterms = input.Incoterms
	}
	if input.PaymentTerms != nil {
		order.PaymentTerms = input.PaymentTerms
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateDraftAttributes(ctx, order)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.invalidate(ctx, id)
	s.recordAudit(ctx, "PO_UPDATE", id, actor, map[string]any{"number": order.OrderNumber})
	return s.repo.GetOrder(ctx, id)
}

// RequestTransition validates and applies a stage transition. The stage-data
// merge, status update and history append land in one transaction; a
// concurrent writer surfaces as ErrConflict and the caller retries from a
// fresh read.
func (s *Service) RequestTransition(ctx context.Context, id int64, input StageRequest, actor *int64) (PurchaseOrder, error) {
	var (
		order PurchaseOrder
		docs  []UploadedDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.repo.GetOrder(gctx, id)
		return err
	})
	g.Go(func() error {
		if s.documents == nil {
			return nil
		}
		var err error
		docs, err = s.documents.ListForOrder(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return PurchaseOrder{}, err
	}

	result, err := s.engine.Transition(order, TransitionRequest{
		Target: input.TargetStatus,
		Fields: input.StageData,
		Actor:  actor,
		Now:    s.now().UTC(),
	}, docs)
	if err != nil {
		return PurchaseOrder{}, err
	}

	refID := uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("PO:%d:%s:%d", id, input.TargetStatus, order.Version)))
	idemKey := refID.String()
	inserted := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idemKey, "purchasing.stage"); err != nil {
			return PurchaseOrder{}, err
		}
		inserted = true
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateOrderStage(ctx, result.Order); err != nil {
			return err
		}
		if result.Approval != nil {
			if _, err := tx.InsertApproval(ctx, *result.Approval); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if inserted {
			_ = s.idempotency.Delete(ctx, idemKey)
		}
		return PurchaseOrder{}, err
	}

	s.invalidate(ctx, id)
	s.recordAudit(ctx, auditAction(result.Kind), id, actor, map[string]any{
		"number": order.OrderNumber,
		"from":   string(order.Status),
		"to":     string(input.TargetStatus),
	})
	if s.notifier != nil {
		evt := StageChangedEvent{
			OrderID:     id,
			OrderNumber: order.OrderNumber,
			From:        order.Status,
			To:          input.TargetStatus,
			Kind:        result.Kind,
			ActorID:     actor,
			At:          s.now().UTC(),
		}
		if err := s.notifier.StageChanged(ctx, evt); err != nil {
			s.logger.Warn("publish stage change", slog.Any("error", err), slog.Int64("order_id", id))
		}
	}
	return s.repo.GetOrder(ctx, id)
}

func auditAction(kind TransitionKind) string {
	switch kind {
	case TransitionCancel:
		return "PO_CANCEL"
	case TransitionReject:
		return "PO_REJECT"
	case TransitionReopen:
		return "PO_REOPEN"
	default:
		return "PO_STAGE_ADVANCE"
	}
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("invalidate order cache", slog.Any("error", err), slog.Int64("order_id", id))
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, orderID int64, actor *int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actor, Action: action, Entity: "purchasing", EntityID: fmt.Sprintf("%d", orderID), Meta: meta}
	if err := s.audit.Record(ctx, log); err != nil {
		s.logger.Warn("record audit", slog.Any("error", err))
	}
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
