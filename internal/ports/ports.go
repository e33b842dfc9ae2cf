package ports

import (
	"context"
	"time"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// CreativeAPI is the driven port to the remote creative service. This is the
// only boundary that performs network calls.
type CreativeAPI interface {
	// GetCreative fetches a creative and its current third-party URLs.
	GetCreative(ctx context.Context, advertiserID, creativeID string) (*domain.Creative, error)

	// PatchThirdPartyURLs replaces the creative's third-party URLs, touching
	// no other field.
	PatchThirdPartyURLs(ctx context.Context, advertiserID, creativeID string, urls []domain.TrackerEntry) (*domain.Creative, error)
}

// SessionStore persists staged edit sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// RunStore keeps a history of batch reports.
type RunStore interface {
	SaveRun(ctx context.Context, report domain.BatchReport) error
	GetRun(ctx context.Context, runID string) (*domain.BatchReport, error)
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// TrackerService defines the driving port used by the HTTP and CLI layers.
type TrackerService interface {
	GetCreative(ctx context.Context, advertiserID, creativeID string) (*CreativeView, error)
	UpdateCreative(ctx context.Context, item domain.BatchItem, dryRun bool) (domain.BatchItemResult, error)
	RunBatch(ctx context.Context, items []domain.BatchItem) domain.BatchReport
	Plan(ctx context.Context, items []domain.BatchItem) domain.BatchReport
	ExportTemplate(ctx context.Context, advertiserID string, creativeIDs []string) ([]domain.TemplateRow, error)

	StartSession(ctx context.Context, items []domain.BatchItem) (*domain.Session, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	StageTrackers(ctx context.Context, id string, item domain.BatchItem) (*domain.Session, error)
	ValidateSession(ctx context.Context, id string) (*domain.Session, error)
	CommitSession(ctx context.Context, id string) (*domain.Session, error)
	ClearSession(ctx context.Context, id string) error

	GetRun(ctx context.Context, runID string) (*domain.BatchReport, error)
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// CreativeView is a creative with its trackers translated to labels.
type CreativeView struct {
	Creative *domain.Creative `json:"creative"`
	Variant  domain.Variant   `json:"variant"`
	Trackers []LabeledURL     `json:"trackers"`

	// VariantAmbiguous is set when the format fell back to the standard table.
	VariantAmbiguous bool `json:"variant_ambiguous,omitempty"`
}

// LabeledURL is a tracker entry with its human-facing event name.
type LabeledURL struct {
	EventType string        `json:"event_type"`
	Type      domain.TypeID `json:"type"`
	URL       string        `json:"url"`
}
