package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// DetailCancelled is recorded for items never started because the batch
// context was cancelled.
const DetailCancelled = "cancelled"

// RunBatch fetches, reconciles and patches every item. A failing item is
// recorded and the batch moves on; nothing is retried. Results keep input
// order whatever the worker count.
func (s *Service) RunBatch(ctx context.Context, items []domain.BatchItem) domain.BatchReport {
	return s.run(ctx, items, false)
}

// Plan is RunBatch without the patch: it reports what a run would do.
func (s *Service) Plan(ctx context.Context, items []domain.BatchItem) domain.BatchReport {
	return s.run(ctx, items, true)
}

func (s *Service) run(ctx context.Context, items []domain.BatchItem, dryRun bool) domain.BatchReport {
	report := domain.BatchReport{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: s.now(),
	}
	logger := s.logger.Named("batch").With(zap.String("run_id", report.RunID), zap.Bool("dry_run", dryRun))
	logger.Info("batch started", zap.Int("items", len(items)), zap.Int("workers", s.workers))

	report.Items = s.processParallel(ctx, logger, items, dryRun)
	for _, r := range report.Items {
		if r.Status == domain.ItemSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.FinishedAt = s.now()

	logger.Info("batch finished",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)

	if s.history != nil {
		// the run already happened; losing its record must not fail it
		if err := s.history.SaveRun(context.WithoutCancel(ctx), report); err != nil {
			logger.Error("failed to store batch report", zap.Error(err))
		}
	}
	return report
}

// processParallel fans items out to s.workers goroutines. Items picked up
// after ctx is done are marked cancelled without touching the API.
func (s *Service) processParallel(ctx context.Context, logger *zap.Logger, items []domain.BatchItem, dryRun bool) []domain.BatchItemResult {
	type job struct {
		index int
		item  domain.BatchItem
	}
	type indexedResult struct {
		index  int
		result domain.BatchItemResult
	}

	jobs := make(chan job, len(items))
	results := make(chan indexedResult, len(items))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log := logger.With(zap.Int("worker", workerID))
			for j := range jobs {
				select {
				case <-ctx.Done():
					results <- indexedResult{index: j.index, result: domain.BatchItemResult{
						AdvertiserID: j.item.AdvertiserID,
						CreativeID:   j.item.CreativeID,
						Status:       domain.ItemFailed,
						Detail:       DetailCancelled,
					}}
					continue
				default:
				}

				r, err := s.processItem(ctx, j.item, dryRun)
				if err != nil {
					log.Warn("item failed",
						zap.String("advertiser_id", j.item.AdvertiserID),
						zap.String("creative_id", j.item.CreativeID),
						zap.Error(err),
					)
				} else {
					log.Debug("item done",
						zap.String("creative_id", j.item.CreativeID),
						zap.String("detail", r.Detail),
					)
				}
				results <- indexedResult{index: j.index, result: r}
			}
		}(w)
	}

	for i, item := range items {
		jobs <- job{index: i, item: item}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]domain.BatchItemResult, len(items))
	done := 0
	for ir := range results {
		out[ir.index] = ir.result
		done++
		if s.progress != nil {
			s.progress(done, len(items), ir.result)
		}
	}
	return out
}

// processItem handles one creative. A non-nil error always comes with a
// Failed result describing it.
func (s *Service) processItem(ctx context.Context, item domain.BatchItem, dryRun bool) (domain.BatchItemResult, error) {
	res := domain.BatchItemResult{
		AdvertiserID: item.AdvertiserID,
		CreativeID:   item.CreativeID,
	}
	fail := func(err error) (domain.BatchItemResult, error) {
		res.Status = domain.ItemFailed
		res.Detail = err.Error()
		return res, err
	}

	if err := validateItem(item); err != nil {
		return fail(err)
	}

	fetchCtx, cancel := s.callContext(ctx)
	creative, err := s.api.GetCreative(fetchCtx, item.AdvertiserID, item.CreativeID)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("%w: %w", domain.ErrFetchFailed, err))
	}

	variant, verr := s.registry.DetectVariant(creative.CreativeType, creative.HostingSource)
	res.Variant = variant
	if verr != nil && s.strictVariant {
		return fail(verr)
	}

	result := s.engine.Reconcile(creative.ThirdPartyURLs, item.Changes, variant)
	if verr != nil {
		result.Warnings = append(result.Warnings, domain.Warning{
			Row:     -1,
			Code:    domain.WarnVariantAmbiguous,
			Message: verr.Error() + ", standard tracker types assumed",
		})
	}
	res.Result = &result

	switch {
	case dryRun:
		res.Status = domain.ItemSuccess
		res.Detail = "planned: " + describe(result)
		return res, nil
	case !result.HasChanges():
		res.Status = domain.ItemSuccess
		res.Detail = "no changes: " + describe(result)
		return res, nil
	}

	patchCtx, cancel := s.callContext(ctx)
	_, err = s.api.PatchThirdPartyURLs(patchCtx, item.AdvertiserID, item.CreativeID, result.FinalTrackers)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("%w: %w", domain.ErrPatchFailed, err))
	}

	res.Status = domain.ItemSuccess
	res.Detail = describe(result)
	return res, nil
}

func describe(r domain.ReconciliationResult) string {
	sum := r.Summary()
	parts := []string{
		fmt.Sprintf("%d added", sum.Added),
		fmt.Sprintf("%d updated", sum.Updated),
		fmt.Sprintf("%d deleted", sum.Deleted),
		fmt.Sprintf("%d unchanged", sum.Unchanged),
	}
	if n := len(r.Warnings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", n))
	}
	return strings.Join(parts, ", ")
}

// IsCancelled reports whether a result was skipped by cancellation.
func IsCancelled(r domain.BatchItemResult) bool {
	return r.Status == domain.ItemFailed && r.Detail == DetailCancelled
}
