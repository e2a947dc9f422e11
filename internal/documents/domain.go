// Package documents owns uploaded-document metadata for purchase orders.
// The workflow core consumes the (stage, documentType) set read-only when
// gating transitions; file content itself lives in external object storage.
package documents

import (
	"errors"
	"time"

	"github.com/seaboard-ops/seaboard/internal/purchasing"
)

// Document is one uploaded document's metadata.
type Document struct {
	ID           int64
	OrderID      int64
	Stage        purchasing.Stage
	DocumentType string
	FileName     string
	ContentType  string
	SizeBytes    int64
	UploadedBy   *int64
	UploadedAt   time.Time
}

var (
	ErrNotFound   = errors.New("documents: not found")
	ErrValidation = errors.New("documents: validation failed")
)
