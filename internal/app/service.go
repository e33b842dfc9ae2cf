package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/jpp0ca/DV360Trackers-API/internal/ports"
)

// Reconciler merges staged changes into existing trackers.
type Reconciler interface {
	Reconcile(existing []domain.TrackerEntry, staged []domain.StagedChange, variant domain.Variant) domain.ReconciliationResult
}

// TypeRegistry detects creative variants and names tracker types.
type TypeRegistry interface {
	DetectVariant(creativeType, hostingSource string) (domain.Variant, error)
	ToLabel(typeID domain.TypeID, variant domain.Variant) string
}

// ProgressFunc is called once per finished batch item, from a single
// goroutine, with the number of items done so far.
type ProgressFunc func(done, total int, result domain.BatchItemResult)

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	// Workers bounds concurrent items per batch. One processes items
	// strictly in order.
	Workers int
	// CallTimeout bounds every fetch and patch.
	CallTimeout time.Duration
	// StrictVariant fails items whose format matches no known variant
	// instead of assuming the standard vocabulary.
	StrictVariant bool

	Logger     *zap.Logger
	History    ports.RunStore
	Sessions   ports.SessionStore
	SessionTTL time.Duration
	Progress   ProgressFunc
}

const (
	defaultCallTimeout = 30 * time.Second
	defaultSessionTTL  = 2 * time.Hour
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service implements ports.TrackerService. Batches run through a worker
// pool whose size is set by Options.Workers.
type Service struct {
	api      ports.CreativeAPI
	engine   Reconciler
	registry TypeRegistry

	workers       int
	callTimeout   time.Duration
	strictVariant bool
	logger        *zap.Logger
	history       ports.RunStore
	sessions      ports.SessionStore
	sessionTTL    time.Duration
	progress      ProgressFunc
	now           func() time.Time
}

// NewService wires the orchestrator to its collaborators.
func NewService(api ports.CreativeAPI, engine Reconciler, registry TypeRegistry, opts Options) *Service {
	s := &Service{
		api:           api,
		engine:        engine,
		registry:      registry,
		workers:       opts.Workers,
		callTimeout:   opts.CallTimeout,
		strictVariant: opts.StrictVariant,
		logger:        opts.Logger,
		history:       opts.History,
		sessions:      opts.Sessions,
		sessionTTL:    opts.SessionTTL,
		progress:      opts.Progress,
		now:           func() time.Time { return time.Now().UTC() },
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.callTimeout <= 0 {
		s.callTimeout = defaultCallTimeout
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = defaultSessionTTL
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// callContext derives the context for one API call. Cancelling the batch
// does not abort a call already in flight; only the timeout does.
func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.callTimeout)
}

// GetCreative fetches a creative and labels its trackers.
func (s *Service) GetCreative(ctx context.Context, advertiserID, creativeID string) (*ports.CreativeView, error) {
	if strings.TrimSpace(advertiserID) == "" || strings.TrimSpace(creativeID) == "" {
		return nil, fmt.Errorf("%w: advertiser_id and creative_id are required", domain.ErrMalformedInput)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	creative, err := s.api.GetCreative(callCtx, advertiserID, creativeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	variant, verr := s.registry.DetectVariant(creative.CreativeType, creative.HostingSource)
	view := &ports.CreativeView{
		Creative:         creative,
		Variant:          variant,
		Trackers:         make([]ports.LabeledURL, 0, len(creative.ThirdPartyURLs)),
		VariantAmbiguous: verr != nil,
	}
	for _, t := range creative.ThirdPartyURLs {
		view.Trackers = append(view.Trackers, ports.LabeledURL{
			EventType: s.registry.ToLabel(t.Type, variant),
			Type:      t.Type,
			URL:       t.URL,
		})
	}
	return view, nil
}

// UpdateCreative runs the single-creative editor: fetch, reconcile and,
// unless dryRun is set, patch. The returned error is the cause of a Failed
// result so callers can map it.
func (s *Service) UpdateCreative(ctx context.Context, item domain.BatchItem, dryRun bool) (domain.BatchItemResult, error) {
	if err := validateItem(item); err != nil {
		return domain.BatchItemResult{}, err
	}
	if len(item.Changes) == 0 {
		return domain.BatchItemResult{}, fmt.Errorf("%w: no changes staged", domain.ErrMalformedInput)
	}

	result, err := s.processItem(ctx, item, dryRun)
	s.logger.Info("creative update finished",
		zap.String("advertiser_id", item.AdvertiserID),
		zap.String("creative_id", item.CreativeID),
		zap.Bool("dry_run", dryRun),
		zap.String("status", string(result.Status)),
	)
	return result, err
}

// ExportTemplate fetches every creative and lays out one editable row per
// existing tracker. A creative without trackers gets one blank row. Any
// fetch failure fails the export.
func (s *Service) ExportTemplate(ctx context.Context, advertiserID string, creativeIDs []string) ([]domain.TemplateRow, error) {
	if strings.TrimSpace(advertiserID) == "" {
		return nil, fmt.Errorf("%w: advertiser_id is required", domain.ErrMalformedInput)
	}
	ids := dedupe(creativeIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no creative ids given", domain.ErrMalformedInput)
	}

	groups := make([][]domain.TemplateRow, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, id := range ids {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.callTimeout)
			defer cancel()

			creative, err := s.api.GetCreative(callCtx, advertiserID, id)
			if err != nil {
				return fmt.Errorf("%w: creative %s: %w", domain.ErrFetchFailed, id, err)
			}
			variant, _ := s.registry.DetectVariant(creative.CreativeType, creative.HostingSource)

			if len(creative.ThirdPartyURLs) == 0 {
				groups[i] = []domain.TemplateRow{{
					AdvertiserID: advertiserID,
					CreativeID:   id,
					CreativeName: creative.DisplayName,
				}}
				return nil
			}
			rows := make([]domain.TemplateRow, 0, len(creative.ThirdPartyURLs))
			for _, t := range creative.ThirdPartyURLs {
				rows = append(rows, domain.TemplateRow{
					AdvertiserID: advertiserID,
					CreativeID:   id,
					CreativeName: creative.DisplayName,
					EventType:    s.registry.ToLabel(t.Type, variant),
					ExistingURL:  t.URL,
				})
			}
			groups[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.TemplateRow
	for _, rows := range groups {
		out = append(out, rows...)
	}
	s.logger.Info("template exported",
		zap.String("advertiser_id", advertiserID),
		zap.Int("creatives", len(ids)),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// GetRun returns a stored batch report.
func (s *Service) GetRun(ctx context.Context, runID string) (*domain.BatchReport, error) {
	if s.history == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
	}
	return s.history.GetRun(ctx, runID)
}

// ListRuns returns recent batch runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.history == nil {
		return []domain.RunSummary{}, nil
	}
	return s.history.ListRuns(ctx, limit)
}

// GroupRows turns tabular rows into batch items, one per (advertiser,
// creative) pair in order of first appearance. Rows without an advertiser
// use defaultAdvertiser.
func GroupRows(rows []domain.TemplateRow, defaultAdvertiser string) ([]domain.BatchItem, error) {
	type key struct{ advertiser, creative string }

	index := make(map[key]int)
	var items []domain.BatchItem
	for i, r := range rows {
		adv := strings.TrimSpace(r.AdvertiserID)
		if adv == "" {
			adv = strings.TrimSpace(defaultAdvertiser)
		}
		creative := strings.TrimSpace(r.CreativeID)
		where := fmt.Sprintf("row %d", i+1)
		if r.Line > 0 {
			where = fmt.Sprintf("line %d", r.Line)
		}
		if adv == "" {
			return nil, fmt.Errorf("%w: %s: no advertiser_id column value and no default advertiser", domain.ErrMalformedInput, where)
		}
		if creative == "" {
			return nil, fmt.Errorf("%w: %s: creative_id is required", domain.ErrMalformedInput, where)
		}

		k := key{adv, creative}
		pos, ok := index[k]
		if !ok {
			pos = len(items)
			index[k] = pos
			items = append(items, domain.BatchItem{AdvertiserID: adv, CreativeID: creative})
		}
		items[pos].Changes = append(items[pos].Changes, r.Change())
	}
	return items, nil
}

func validateItem(item domain.BatchItem) error {
	if err := validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" "+fe.Tag())
			}
			return fmt.Errorf("%w: %s", domain.ErrMalformedInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
