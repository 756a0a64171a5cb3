// Package services contains the orchestration layer: the sync driver
// that iterates parents, invokes extractors and commits checkpoints.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
	"github.com/tributary-data/tributary/internal/core/ports/driving"
	"github.com/tributary-data/tributary/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncRunner = (*SyncService)(nil)

// SyncService drives extraction runs: for each resource type of a
// connector it processes every parent independently, committing a
// parent's watermark only after that parent's extraction succeeded.
type SyncService struct {
	sources     driven.SourceStore
	factory     driven.ConnectorFactory
	checkpoints driven.CheckpointStore
	sink        driven.Sink
}

// NewSyncService creates a new sync service.
func NewSyncService(
	sources driven.SourceStore,
	factory driven.ConnectorFactory,
	checkpoints driven.CheckpointStore,
	sink driven.Sink,
) *SyncService {
	return &SyncService{
		sources:     sources,
		factory:     factory,
		checkpoints: checkpoints,
		sink:        sink,
	}
}

// Sync runs extraction for one source. Parent discovery or connector
// setup failures abort the run before any parent is processed; failures
// inside one parent's extraction are isolated to that parent and
// recorded in the returned reports.
func (s *SyncService) Sync(ctx context.Context, sourceID string) ([]domain.RunReport, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	connector, err := s.factory.Create(ctx, *source)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if err := connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate connector: %w", err)
	}

	// Parents are discovered once per run and shared across resources.
	parents, err := connector.Parents(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover parents: %w", err)
	}
	logger.Info("Source %s: %d parents discovered", sourceID, len(parents))

	reports := make([]domain.RunReport, 0, len(connector.Resources()))
	for _, extractor := range connector.Resources() {
		report, err := s.runResource(ctx, extractor, parents, connector.StartDate())
		reports = append(reports, report)
		if err != nil {
			// Only context cancellation stops the remaining resources;
			// per-parent failures are already inside the report.
			return reports, err
		}
	}
	return reports, nil
}

// SyncAll runs extraction for every configured source.
func (s *SyncService) SyncAll(ctx context.Context) ([]domain.RunReport, error) {
	sources, err := s.sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	var reports []domain.RunReport
	var errs []error
	for _, source := range sources {
		r, err := s.Sync(ctx, source.ID)
		reports = append(reports, r...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return reports, err
			}
			errs = append(errs, fmt.Errorf("sync %s: %w", source.ID, err))
		}
	}
	if len(errs) > 0 {
		return reports, errors.Join(errs...)
	}
	return reports, nil
}

// runResource processes every parent for one resource type. Parents are
// processed sequentially in the order supplied; a failure for one parent
// never aborts the rest and never rolls back a committed checkpoint.
func (s *SyncService) runResource(
	ctx context.Context,
	extractor driven.ResourceExtractor,
	parents []domain.Parent,
	startDate string,
) (domain.RunReport, error) {
	resource := extractor.Resource()
	report := domain.RunReport{
		RunID:     uuid.NewString(),
		Resource:  resource,
		StartedAt: time.Now(),
	}
	if startDate == "" {
		startDate = domain.DefaultStartDate
	}

	for _, parent := range parents {
		if err := ctx.Err(); err != nil {
			// Cancellation mid-run: parents not yet committed simply
			// retry from their previous checkpoint on the next run.
			report.FinishedAt = time.Now()
			return report, err
		}

		result := s.runParent(ctx, extractor, parent, startDate)
		if result.Failed() {
			if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
				report.Results = append(report.Results, result)
				report.FinishedAt = time.Now()
				return report, result.Err
			}
			logger.Error("Failed to process %s for %s: %v", resource, parent.ID, result.Err)
		}
		report.Results = append(report.Results, result)
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// runParent extracts one resource type for one parent. The checkpoint is
// read at parent start and written back only when extraction completed
// without error and observed at least one record.
func (s *SyncService) runParent(
	ctx context.Context,
	extractor driven.ResourceExtractor,
	parent domain.Parent,
	startDate string,
) domain.ParentResult {
	resource := extractor.Resource()
	result := domain.ParentResult{Resource: resource, ParentID: parent.ID}

	lower, err := s.checkpoints.Get(ctx, resource, parent.ID)
	if errors.Is(err, domain.ErrNotFound) {
		lower = startDate
	} else if err != nil {
		result.Err = fmt.Errorf("get checkpoint: %w", err)
		return result
	}

	keyPath := extractor.KeyPath()
	emit := func(rec domain.Record) error {
		key, err := rec.Key(keyPath)
		if err != nil {
			return err
		}
		return s.sink.Write(ctx, resource, key, rec)
	}

	stats, err := extractor.Extract(ctx, parent, lower, emit)
	result.Records = stats.Records
	result.Windows = stats.Windows
	if err != nil {
		result.Err = err
		return result
	}

	if stats.Watermark != "" {
		if err := s.checkpoints.Set(ctx, resource, parent.ID, stats.Watermark); err != nil {
			result.Err = fmt.Errorf("commit checkpoint: %w", err)
			return result
		}
		result.Watermark = stats.Watermark
		logger.Info("Updated %s checkpoint for %s to %s", resource, parent.ID, stats.Watermark)
	}
	return result
}
