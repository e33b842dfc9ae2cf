package domain

import (
	"strings"
	"time"
)

// TypeID is the API's identifier for a third-party tracker type, e.g.
// "THIRD_PARTY_URL_TYPE_IMPRESSION".
type TypeID string

// Variant selects the tracker vocabulary used by a creative format.
type Variant string

const (
	VariantStandard    Variant = "standard"
	VariantVastVideo   Variant = "vast_video"
	VariantHostedVideo Variant = "hosted_video"
)

// ParseVariant accepts a variant name case-insensitively.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantStandard:
		return VariantStandard, true
	case VariantVastVideo:
		return VariantVastVideo, true
	case VariantHostedVideo:
		return VariantHostedVideo, true
	}
	return "", false
}

// TrackerEntry is one third-party URL attached to a creative.
type TrackerEntry struct {
	Type TypeID `json:"type"`
	URL  string `json:"url"`
}

// StagedChange is one row a user edited. An empty ExistingURL marks an
// addition candidate, an empty NewURL means no change, and NewURL equal to
// DeleteSentinel (any case) requests deletion.
//
// Append rows add NewURL next to the trackers already present instead of
// replacing the ones of the same type. Line is the source sheet line, zero
// when the change did not come from a file.
type StagedChange struct {
	EventType   string `json:"event_type" validate:"max=100"`
	ExistingURL string `json:"existing_url,omitempty" validate:"max=4096"`
	NewURL      string `json:"new_url,omitempty" validate:"max=4096"`
	Append      bool   `json:"append,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// DeleteSentinel in StagedChange.NewURL marks the targeted tracker for removal.
const DeleteSentinel = "delete"

// IsDelete reports whether the change requests deletion.
func (c StagedChange) IsDelete() bool {
	return strings.EqualFold(strings.TrimSpace(c.NewURL), DeleteSentinel)
}

// MergeKey controls which attributes identify "the same" tracker when staged
// changes are merged into existing ones.
type MergeKey string

const (
	// MergeKeyType allows one tracker per event type.
	MergeKeyType MergeKey = "type"
	// MergeKeyTypeURL allows several trackers of one type with distinct URLs.
	MergeKeyTypeURL MergeKey = "type_url"
)

// ChangeStatus classifies what reconciliation did to a tracker.
type ChangeStatus string

const (
	StatusAdded     ChangeStatus = "ADDED"
	StatusUpdated   ChangeStatus = "UPDATED"
	StatusDeleted   ChangeStatus = "DELETED"
	StatusUnchanged ChangeStatus = "UNCHANGED"
)

// Classification records the fate of a single tracker entry.
type Classification struct {
	Entry     TrackerEntry  `json:"entry"`
	EventType string        `json:"event_type"`
	Status    ChangeStatus  `json:"status"`
	Previous  *TrackerEntry `json:"previous,omitempty"` // set for UPDATED
}

// Warning codes attached to staged rows that could not be applied as written.
const (
	WarnUnknownTrackerType = "unknown_tracker_type"
	WarnDuplicateRow       = "duplicate_row"
	WarnNothingToDelete    = "nothing_to_delete"
	WarnNoOp               = "no_op"
	WarnVariantAmbiguous   = "variant_ambiguous"
)

// Warning is a non-fatal problem with one staged row. Row is the zero-based
// index into the staged slice; Line is that row's sheet line when known.
type Warning struct {
	Row     int    `json:"row"`
	Line    int    `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReconciliationResult is the output of merging staged changes into a
// creative's existing trackers.
type ReconciliationResult struct {
	FinalTrackers   []TrackerEntry   `json:"final_trackers"`
	Classifications []Classification `json:"classifications"`
	Warnings        []Warning        `json:"warnings,omitempty"`
}

// Summary counts classifications per status.
type Summary struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// Summary returns per-status counts for r.
func (r ReconciliationResult) Summary() Summary {
	var s Summary
	for _, c := range r.Classifications {
		switch c.Status {
		case StatusAdded:
			s.Added++
		case StatusUpdated:
			s.Updated++
		case StatusDeleted:
			s.Deleted++
		case StatusUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// HasChanges reports whether applying r would alter the creative.
func (r ReconciliationResult) HasChanges() bool {
	s := r.Summary()
	return s.Added+s.Updated+s.Deleted > 0
}

// Report flattens the classifications into one row per tracker.
func (r ReconciliationResult) Report(creativeID string) []ReportRow {
	rows := make([]ReportRow, 0, len(r.Classifications))
	for _, c := range r.Classifications {
		rows = append(rows, ReportRow{
			CreativeID: creativeID,
			EventType:  c.EventType,
			URL:        c.Entry.URL,
			Status:     c.Status,
		})
	}
	return rows
}

// ReportRow is one line of the classification report.
type ReportRow struct {
	CreativeID string       `json:"creative_id"`
	EventType  string       `json:"event_type"`
	URL        string       `json:"url"`
	Status     ChangeStatus `json:"status"`
}

// Creative is the subset of a DV360 creative this service reads and writes.
type Creative struct {
	AdvertiserID   string         `json:"advertiser_id"`
	CreativeID     string         `json:"creative_id"`
	DisplayName    string         `json:"display_name"`
	CreativeType   string         `json:"creative_type"`
	HostingSource  string         `json:"hosting_source"`
	ThirdPartyURLs []TrackerEntry `json:"third_party_urls"`
}

// BatchItem is one creative to update in a bulk run.
type BatchItem struct {
	AdvertiserID string         `json:"advertiser_id" validate:"required"`
	CreativeID   string         `json:"creative_id" validate:"required"`
	Changes      []StagedChange `json:"changes" validate:"dive"`
}

// ItemStatus is the outcome of a single batch item.
type ItemStatus string

const (
	ItemSuccess ItemStatus = "Success"
	ItemFailed  ItemStatus = "Failed"
)

// BatchItemResult records what happened to one creative in a batch.
type BatchItemResult struct {
	AdvertiserID string                `json:"advertiser_id"`
	CreativeID   string                `json:"creative_id"`
	Status       ItemStatus            `json:"status"`
	Detail       string                `json:"detail"`
	Variant      Variant               `json:"variant,omitempty"`
	Result       *ReconciliationResult `json:"result,omitempty"`
}

// BatchReport aggregates a full bulk run.
type BatchReport struct {
	RunID      string            `json:"run_id"`
	DryRun     bool              `json:"dry_run"`
	Items      []BatchItemResult `json:"items"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// Rows returns the classification report for every successful item.
func (b BatchReport) Rows() []ReportRow {
	var rows []ReportRow
	for _, it := range b.Items {
		if it.Result == nil || it.Status != ItemSuccess {
			continue
		}
		rows = append(rows, it.Result.Report(it.CreativeID)...)
	}
	return rows
}

// ItemWarning is a reconciliation warning tagged with its creative.
type ItemWarning struct {
	CreativeID string `json:"creative_id"`
	Warning
}

// Warnings lists the warnings of every reconciled item, in item order.
func (b BatchReport) Warnings() []ItemWarning {
	var out []ItemWarning
	for _, it := range b.Items {
		if it.Result == nil {
			continue
		}
		for _, w := range it.Result.Warnings {
			out = append(out, ItemWarning{CreativeID: it.CreativeID, Warning: w})
		}
	}
	return out
}

// TemplateRow is one line of the editable export sheet.
type TemplateRow struct {
	AdvertiserID string `json:"advertiser_id" validate:"omitempty,max=64"`
	CreativeID   string `json:"creative_id" validate:"required,max=64"`
	CreativeName string `json:"creative_name"`
	EventType    string `json:"event_type" validate:"max=100"`
	ExistingURL  string `json:"existing_url" validate:"max=4096"`
	NewURL       string `json:"new_url" validate:"max=4096"`

	// Set by readers: the sheet line, and whether the row layout adds
	// trackers rather than editing them.
	Line   int  `json:"-"`
	Append bool `json:"-"`
}

// Change converts the row's editable columns into a staged change.
func (r TemplateRow) Change() StagedChange {
	return StagedChange{
		EventType:   r.EventType,
		ExistingURL: r.ExistingURL,
		NewURL:      r.NewURL,
		Append:      r.Append,
		Line:        r.Line,
	}
}

// SessionPhase is the workflow position of a staged edit session.
type SessionPhase string

const (
	PhaseStaged    SessionPhase = "staged"
	PhaseValidated SessionPhase = "validated"
	PhaseCommitted SessionPhase = "committed"
)

// Session carries staged edits through load, stage, validate and commit.
type Session struct {
	ID        string       `json:"id"`
	Phase     SessionPhase `json:"phase"`
	Items     []BatchItem  `json:"items"`
	Plan      *BatchReport `json:"plan,omitempty"`
	Report    *BatchReport `json:"report,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RunSummary is a compact listing entry for stored batch runs.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	DryRun     bool      `json:"dry_run"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
