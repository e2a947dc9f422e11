package purchasing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for purchase orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("purchasing: begin tx: %w", err)
	}
	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderColumns = `id, order_number, type, status, is_legacy, counterparty_name,
expected_date, incoterms, payment_terms, notes, warehouse_code, warehouse_name,
stage_data, version, created_at, updated_at`

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var (
		o       PurchaseOrder
		rawData []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Type, &o.Status, &o.IsLegacy, &o.CounterpartyName,
		&o.ExpectedDate, &o.Incoterms, &o.PaymentTerms, &o.Notes, &o.WarehouseCode, &o.WarehouseName,
		&rawData, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &o.StageData); err != nil {
			return PurchaseOrder{}, fmt.Errorf("purchasing: decode stage data: %w", err)
		}
	}
	if o.StageData == nil {
		o.StageData = StageData{}
	}
	return o, nil
}

func loadOrder(ctx context.Context, q rowQuerier, id int64) (PurchaseOrder, error) {
	order, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return PurchaseOrder{}, err
	}

	lineRows, err := q.Query(ctx, `SELECT id, order_id, sku, batch, quantity, posted_qty, received_qty, status, line_order
FROM purchase_order_lines WHERE order_id = $1 ORDER BY line_order, id`, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l Line
		if err := lineRows.Scan(&l.ID, &l.OrderID, &l.SKU, &l.Batch, &l.Quantity, &l.PostedQty, &l.ReceivedQty, &l.Status, &l.LineOrder); err != nil {
			return PurchaseOrder{}, err
		}
		order.Lines = append(order.Lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return PurchaseOrder{}, err
	}

	approvalRows, err := q.Query(ctx, `SELECT id, order_id, stage, approved_by, approved_at
FROM purchase_order_approvals WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer approvalRows.Close()
	for approvalRows.Next() {
		var a StageApproval
		if err := approvalRows.Scan(&a.ID, &a.OrderID, &a.Stage, &a.ApprovedBy, &a.ApprovedAt); err != nil {
			return PurchaseOrder{}, err
		}
		order.ApprovalHistory = append(order.ApprovalHistory, a)
	}
	if err := approvalRows.Err(); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// GetOrder returns the full aggregate: order, lines and approval history.
func (r *Repository) GetOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	return loadOrder(ctx, r.pool, id)
}

// ListOrders returns matching aggregates plus the unpaged total.
func (r *Repository) ListOrders(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error) {
	where := `WHERE ($1 = '' OR status = $1)
AND ($2 = '' OR type = $2)
AND ($3 = '' OR order_number ILIKE '%' || $3 || '%' OR counterparty_name ILIKE '%' || $3 || '%')`
	args := []any{string(filters.Status), string(filters.Type), filters.Search}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM purchase_orders `+where+`
ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CreateOrder inserts the order header.
func (t *txRepo) CreateOrder(ctx context.Context, order PurchaseOrder) (int64, error) {
	data, err := json.Marshal(order.StageData)
	if err != nil {
		return 0, err
	}
	var id int64
	err = t.tx.QueryRow(ctx, `INSERT INTO purchase_orders
(order_number, type, status, is_legacy, counterparty_name, expected_date, incoterms, payment_terms, notes, stage_data, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW(), NOW())
RETURNING id`,
		order.OrderNumber, order.Type, order.Status, order.IsLegacy, order.CounterpartyName,
		order.ExpectedDate, order.Incoterms, order.PaymentTerms, order.Notes, data).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// InsertLine appends a line to the order.
func (t *txRepo) InsertLine(ctx context.Context, line Line) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO purchase_order_lines
(order_id, sku, batch, quantity, posted_qty, received_qty, status, line_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		line.OrderID, line.SKU, line.Batch, line.Quantity, line.PostedQty, line.ReceivedQty, line.Status, line.LineOrder)
	return err
}

// UpdateOrderStage writes the transition's order-level effects guarded by
// the optimistic version check.
func (t *txRepo) UpdateOrderStage(ctx context.Context, order PurchaseOrder) error {
	data, err := json.Marshal(order.StageData)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET
status = $1, stage_data = $2, warehouse_code = $3, warehouse_name = $4,
expected_date = $5, incoterms = $6, payment_terms = $7,
version = version + 1, updated_at = NOW()
WHERE id = $8 AND version = $9`,
		order.Status, data, order.WarehouseCode, order.WarehouseName,
		order.ExpectedDate, order.Incoterms, order.PaymentTerms,
		order.ID, order.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateDraftAttributes writes the DRAFT-only attribute columns, also under
// the version check so a racing transition cannot be overwritten.
func (t *txRepo) UpdateDraftAttributes(ctx context.Context, order PurchaseOrder) error {
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET
counterparty_name = $1, expected_date = $2, incoterms = $3, payment_terms = $4, notes = $5,
version = version + 1, updated_at = NOW()
WHERE id = $6 AND version = $7 AND status = 'DRAFT'`,
		order.CounterpartyName, order.ExpectedDate, order.Incoterms, order.PaymentTerms, order.Notes,
		order.ID, order.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// InsertApproval appends one history row. The table is append-only; nothing
// in this package updates or deletes from it.
func (t *txRepo) InsertApproval(ctx context.Context, approval StageApproval) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO purchase_order_approvals (order_id, stage, approved_by, approved_at)
VALUES ($1, $2, $3, $4) RETURNING id`,
		approval.OrderID, approval.Stage, approval.ApprovedBy, approval.ApprovedAt).Scan(&id)
	return id, err
}
