package scans

import (
	"context"
	"errors"
)

// ErrNotFound signals a lookup for a scan id that does not exist.
var ErrNotFound = errors.New("scan not found")

// Repository port (interface for persistence). Scans are create/read only;
// there is no update or delete.
type Repository interface {
	// Create persists the scan and fills in the store-assigned ID.
	Create(ctx context.Context, s *Scan) error
	Get(ctx context.Context, id ScanID) (*Scan, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

// ImageStore port (interface for archiving uploaded ad images)
type ImageStore interface {
	UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
