// Package reconcile merges a user's staged tracker edits into the trackers a
// creative already carries. Reconciliation is a pure function of its inputs.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// TypeResolver translates event labels to API types and back.
type TypeResolver interface {
	ToAPIType(label string, variant domain.Variant) (domain.TypeID, error)
	ToLabel(typeID domain.TypeID, variant domain.Variant) string
}

// Engine computes final tracker lists for a fixed merge-key policy.
type Engine struct {
	types    TypeResolver
	mergeKey domain.MergeKey
}

// New creates an engine. An empty mergeKey selects domain.MergeKeyType.
func New(types TypeResolver, mergeKey domain.MergeKey) *Engine {
	if mergeKey == "" {
		mergeKey = domain.MergeKeyType
	}
	return &Engine{types: types, mergeKey: mergeKey}
}

// MergeKey returns the engine's merge-key policy.
func (e *Engine) MergeKey() domain.MergeKey {
	return e.mergeKey
}

type entryKey struct {
	typeID domain.TypeID
	url    string
}

type row struct {
	index       int
	line        int
	label       string
	typeID      domain.TypeID
	existingURL string
	newURL      string
	del         bool
	add         bool // append next to same-type trackers
}

// Reconcile applies staged to existing for a creative of the given variant.
//
// Existing entries no staged row targets are kept unchanged. The final list
// holds kept entries in their original order followed by added and updated
// entries in staged order. Rows that cannot be applied produce warnings and
// never abort the merge.
//
// Append rows only ever match an existing entry with the same type and URL,
// whatever the merge key, so they never replace a sibling tracker.
func (e *Engine) Reconcile(existing []domain.TrackerEntry, staged []domain.StagedChange, variant domain.Variant) domain.ReconciliationResult {
	if len(staged) == 0 {
		return domain.ReconciliationResult{FinalTrackers: cloneEntries(existing)}
	}

	rows, warnings := e.resolve(staged, variant)

	targets := make(map[entryKey][]int, len(existing))
	exact := make(map[entryKey][]int, len(existing))
	for i, entry := range existing {
		k := e.entryKey(entry)
		targets[k] = append(targets[k], i)
		x := exactKey(entry)
		exact[x] = append(exact[x], i)
	}

	consumed := make([]bool, len(existing))
	var changed, deleted []domain.Classification
	appended := make(map[int]bool)

	for _, r := range rows {
		candidates := targets[e.rowKey(r)]
		if r.add {
			candidates = exact[entryKey{typeID: r.typeID, url: r.newURL}]
		}
		var live []int
		for _, i := range candidates {
			if !consumed[i] {
				live = append(live, i)
			}
		}

		switch {
		case r.add:
			if len(live) > 0 {
				continue
			}
			appended[len(changed)] = true
			changed = append(changed, domain.Classification{
				Entry:     domain.TrackerEntry{Type: r.typeID, URL: r.newURL},
				EventType: r.label,
				Status:    domain.StatusAdded,
			})

		case r.del:
			if len(live) == 0 {
				warnings = append(warnings, domain.Warning{
					Row:     r.index,
					Line:    r.line,
					Code:    domain.WarnNothingToDelete,
					Message: fmt.Sprintf("no existing %s tracker matches %q", r.label, r.existingURL),
				})
				continue
			}
			for _, i := range live {
				consumed[i] = true
				deleted = append(deleted, domain.Classification{
					Entry:     existing[i],
					EventType: r.label,
					Status:    domain.StatusDeleted,
				})
			}

		case r.newURL == "":
			if len(live) == 0 {
				warnings = append(warnings, domain.Warning{
					Row:     r.index,
					Line:    r.line,
					Code:    domain.WarnNoOp,
					Message: fmt.Sprintf("row has no new_url and no existing %s tracker", r.label),
				})
			}

		default:
			if len(live) > 0 && allURLsEqual(existing, live, r.newURL) {
				continue
			}
			c := domain.Classification{
				Entry:     domain.TrackerEntry{Type: r.typeID, URL: r.newURL},
				EventType: r.label,
				Status:    domain.StatusAdded,
			}
			if len(live) > 0 {
				prev := existing[live[0]]
				c.Status = domain.StatusUpdated
				c.Previous = &prev
				for _, i := range live {
					consumed[i] = true
				}
			}
			changed = append(changed, c)
		}
	}

	result := domain.ReconciliationResult{
		FinalTrackers: make([]domain.TrackerEntry, 0, len(existing)+len(changed)),
		Warnings:      warnings,
	}
	seen := make(map[entryKey]bool, len(existing)+len(changed))
	emitted := make(map[entryKey]bool, len(existing)+len(changed))

	for i, entry := range existing {
		if consumed[i] {
			continue
		}
		result.FinalTrackers = append(result.FinalTrackers, entry)
		seen[e.entryKey(entry)] = true
		emitted[exactKey(entry)] = true
		result.Classifications = append(result.Classifications, domain.Classification{
			Entry:     entry,
			EventType: e.types.ToLabel(entry.Type, variant),
			Status:    domain.StatusUnchanged,
		})
	}

	for n, c := range changed {
		k, x := e.entryKey(c.Entry), exactKey(c.Entry)
		if emitted[x] || (!appended[n] && seen[k]) {
			// Another entry already occupies this key; the replaced one is gone.
			if c.Previous != nil {
				deleted = append(deleted, domain.Classification{
					Entry:     *c.Previous,
					EventType: c.EventType,
					Status:    domain.StatusDeleted,
				})
			}
			continue
		}
		if !appended[n] {
			seen[k] = true
		}
		emitted[x] = true
		result.FinalTrackers = append(result.FinalTrackers, c.Entry)
		result.Classifications = append(result.Classifications, c)
	}

	result.Classifications = append(result.Classifications, deleted...)
	return result
}

// resolve trims rows, translates labels and collapses rows aimed at the same
// key, letting the later row win. Append rows collapse only with append rows
// for the same URL.
func (e *Engine) resolve(staged []domain.StagedChange, variant domain.Variant) ([]row, []domain.Warning) {
	var (
		rows     []row
		warnings []domain.Warning
	)
	byKey := make(map[entryKey]int, len(staged))
	byURL := make(map[entryKey]int)

	for i, c := range staged {
		label := strings.TrimSpace(c.EventType)
		existingURL := strings.TrimSpace(c.ExistingURL)
		newURL := strings.TrimSpace(c.NewURL)
		if label == "" && existingURL == "" && newURL == "" {
			continue
		}

		typeID, err := e.types.ToAPIType(label, variant)
		if err != nil {
			warnings = append(warnings, domain.Warning{
				Row:     i,
				Line:    c.Line,
				Code:    domain.WarnUnknownTrackerType,
				Message: err.Error(),
			})
			continue
		}

		r := row{
			index:       i,
			line:        c.Line,
			label:       e.types.ToLabel(typeID, variant),
			typeID:      typeID,
			existingURL: existingURL,
			newURL:      newURL,
			del:         c.IsDelete(),
		}
		if r.del {
			r.newURL = ""
		}
		r.add = c.Append && !r.del && existingURL == "" && newURL != ""

		k, index := e.rowKey(r), byKey
		if r.add {
			k, index = entryKey{typeID: typeID, url: newURL}, byURL
		}
		if pos, dup := index[k]; dup {
			warnings = append(warnings, domain.Warning{
				Row:     i,
				Line:    c.Line,
				Code:    domain.WarnDuplicateRow,
				Message: fmt.Sprintf("overrides row %d for the same %s tracker", rows[pos].index, r.label),
			})
			rows[pos] = r
			continue
		}
		index[k] = len(rows)
		rows = append(rows, r)
	}

	return rows, warnings
}

func (e *Engine) entryKey(entry domain.TrackerEntry) entryKey {
	if e.mergeKey == domain.MergeKeyTypeURL {
		return entryKey{typeID: entry.Type, url: strings.TrimSpace(entry.URL)}
	}
	return entryKey{typeID: entry.Type}
}

func exactKey(entry domain.TrackerEntry) entryKey {
	return entryKey{typeID: entry.Type, url: strings.TrimSpace(entry.URL)}
}

func (e *Engine) rowKey(r row) entryKey {
	if e.mergeKey != domain.MergeKeyTypeURL {
		return entryKey{typeID: r.typeID}
	}
	url := r.existingURL
	if url == "" && !r.del {
		url = r.newURL
	}
	return entryKey{typeID: r.typeID, url: url}
}

func allURLsEqual(entries []domain.TrackerEntry, idx []int, url string) bool {
	for _, i := range idx {
		if strings.TrimSpace(entries[i].URL) != url {
			return false
		}
	}
	return true
}

func cloneEntries(entries []domain.TrackerEntry) []domain.TrackerEntry {
	out := make([]domain.TrackerEntry, len(entries))
	copy(out, entries)
	return out
}
