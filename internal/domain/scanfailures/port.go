package scanfailures

import "context"

// Repository defines persistence for scan failure audit entries
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListByScan(ctx context.Context, scanID int64, limit int) ([]*Failure, error)
}
