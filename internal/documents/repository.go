package documents

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists document metadata in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, order_id, stage, document_type, file_name, content_type, size_bytes, uploaded_by, uploaded_at`

// ListByOrder returns all documents for an order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+`
FROM purchase_order_documents WHERE order_id = $1 ORDER BY uploaded_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Stage, &d.DocumentType, &d.FileName,
			&d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Insert records one document's metadata.
func (r *Repository) Insert(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO purchase_order_documents
(order_id, stage, document_type, file_name, content_type, size_bytes, uploaded_by, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
RETURNING id`,
		doc.OrderID, doc.Stage, doc.DocumentType, doc.FileName,
		doc.ContentType, doc.SizeBytes, doc.UploadedBy).Scan(&id)
	return id, err
}

// Delete removes one document's metadata.
func (r *Repository) Delete(ctx context.Context, orderID, docID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM purchase_order_documents WHERE id = $1 AND order_id = $2`, docID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
