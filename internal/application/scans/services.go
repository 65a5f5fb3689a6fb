package scans

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adwatch/adscan/internal/application"
	domai "github.com/adwatch/adscan/internal/domain/ai"
	domfail "github.com/adwatch/adscan/internal/domain/scanfailures"
	domain "github.com/adwatch/adscan/internal/domain/scans"
)

// persistTimeout bounds the store writes that run on a detached context.
const persistTimeout = 10 * time.Second

// Service implements the scan use-cases. Safe for concurrent use; every
// request runs its pipeline independently and only shares the repositories.
type Service struct {
	Repo       domain.Repository
	Classifier domai.Classifier
	Prompts    domai.Builder
	Failures   domfail.Repository // optional, nil disables the audit log
	Images     domain.ImageStore  // optional, nil disables image archiving
	Clock      application.Clock
	Logger     *zap.Logger
}

//
// ==== USE CASES ====
//

// Command to run one scan
type ScanCommand struct {
	UserID         string
	AdCopy         string
	ImageName      string
	ImageData      []byte
	ImageMediaType string
}

// Scan runs the full pipeline: build prompt -> classify -> extract -> persist.
// A remote failure and a parse failure converge here into the same degraded
// analysis, so callers always get a well-formed result; only persistence
// errors surface as hard failures.
func (s *Service) Scan(ctx context.Context, cmd ScanCommand) (*domain.Scan, error) {
	userID := cmd.UserID
	if userID == "" {
		userID = domain.AnonymousUser
	}

	p := s.Prompts.Build(cmd.AdCopy, cmd.ImageData, cmd.ImageMediaType)

	var (
		analysis    domain.Analysis
		classifyErr error
		extractErr  error
	)
	raw, classifyErr := s.Classifier.Classify(ctx, p)
	if classifyErr != nil {
		s.logger().Warn("classifier call failed, degrading result",
			zap.String("user_id", userID), zap.Error(classifyErr))
		analysis = domain.DegradedAnalysis("could not complete analysis: " + classifyErr.Error())
	} else {
		analysis, extractErr = Extract(raw)
		if extractErr != nil {
			s.logger().Warn("classifier reply not parseable, degrading result",
				zap.String("user_id", userID), zap.Error(extractErr))
		}
	}

	// Persistence is the durability boundary: once a result exists it is
	// stored even if the caller already disconnected, hence the detached
	// context from here on.
	pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	imageURL := s.archiveImage(pctx, userID, cmd)

	scan := &domain.Scan{
		UserID:    userID,
		AdCopy:    cmd.AdCopy,
		ImageName: cmd.ImageName,
		ImageURL:  imageURL,
		Analysis:  analysis,
		CreatedAt: s.Clock.Now().UTC(),
	}
	if err := s.Repo.Create(pctx, scan); err != nil {
		return nil, fmt.Errorf("persisting scan: %w", err)
	}

	switch {
	case classifyErr != nil:
		s.recordFailure(pctx, scan, domfail.StageClassify, classifyErr)
	case extractErr != nil:
		s.recordFailure(pctx, scan, domfail.StageExtract, extractErr)
	}
	return scan, nil
}

// History lists a user's scans, most recent first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

// Get fetches one scan by id
func (s *Service) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	return s.Repo.Get(ctx, id)
}

// FailuresByScan lists the audit entries recorded for a degraded scan.
func (s *Service) FailuresByScan(ctx context.Context, scanID domain.ScanID, limit int) ([]*domfail.Failure, error) {
	if s.Failures == nil {
		return nil, nil
	}
	return s.Failures.ListByScan(ctx, int64(scanID), limit)
}

// archiveImage uploads the ad image to the object store, best-effort. The
// scan proceeds without a URL when archiving is disabled or fails.
func (s *Service) archiveImage(ctx context.Context, userID string, cmd ScanCommand) string {
	if s.Images == nil || len(cmd.ImageData) == 0 {
		return ""
	}
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), filepath.Ext(cmd.ImageName))
	url, err := s.Images.UploadImage(ctx, key, cmd.ImageData, cmd.ImageMediaType)
	if err != nil {
		s.logger().Warn("image archive failed",
			zap.String("user_id", userID), zap.String("image", cmd.ImageName), zap.Error(err))
		return ""
	}
	return url
}

// recordFailure writes the audit row, best-effort. Never fails the scan.
func (s *Service) recordFailure(ctx context.Context, scan *domain.Scan, stage domfail.Stage, cause error) {
	if s.Failures == nil {
		return
	}
	f := &domfail.Failure{
		ScanID:    int64(scan.ID),
		UserID:    scan.UserID,
		Stage:     stage,
		Message:   cause.Error(),
		CreatedAt: scan.CreatedAt,
	}
	if err := s.Failures.Save(ctx, f); err != nil {
		s.logger().Warn("could not record scan failure",
			zap.Int64("scan_id", int64(scan.ID)), zap.Error(err))
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
