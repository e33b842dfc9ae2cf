package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/jpp0ca/DV360Trackers-API/internal/ports"
	"github.com/jpp0ca/DV360Trackers-API/internal/reconcile"
	"github.com/jpp0ca/DV360Trackers-API/internal/trackertype"
)

var _ ports.TrackerService = (*Service)(nil)

const (
	typeImpression = domain.TypeID("THIRD_PARTY_URL_TYPE_IMPRESSION")
	typeClick      = domain.TypeID("THIRD_PARTY_URL_TYPE_CLICK_TRACKING")
	typeStart      = domain.TypeID("THIRD_PARTY_URL_TYPE_AUDIO_VIDEO_START")
)

// -- Mock creative API -------------------------------------------------------

type mockCreativeAPI struct {
	mu        sync.Mutex
	creatives map[string]*domain.Creative
	fetchErr  map[string]error
	patchErr  map[string]error
	patched   map[string][]domain.TrackerEntry
	fetches   int
	patches   int
}

func newMockAPI(creatives ...*domain.Creative) *mockCreativeAPI {
	m := &mockCreativeAPI{
		creatives: make(map[string]*domain.Creative),
		fetchErr:  make(map[string]error),
		patchErr:  make(map[string]error),
		patched:   make(map[string][]domain.TrackerEntry),
	}
	for _, c := range creatives {
		m.creatives[c.CreativeID] = c
	}
	return m
}

func (m *mockCreativeAPI) GetCreative(_ context.Context, advertiserID, creativeID string) (*domain.Creative, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++

	if err := m.fetchErr[creativeID]; err != nil {
		return nil, err
	}
	c, ok := m.creatives[creativeID]
	if !ok {
		return nil, fmt.Errorf("creative %s not found", creativeID)
	}
	cp := *c
	cp.AdvertiserID = advertiserID
	cp.ThirdPartyURLs = append([]domain.TrackerEntry{}, c.ThirdPartyURLs...)
	return &cp, nil
}

func (m *mockCreativeAPI) PatchThirdPartyURLs(_ context.Context, _ string, creativeID string, urls []domain.TrackerEntry) (*domain.Creative, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches++

	if err := m.patchErr[creativeID]; err != nil {
		return nil, err
	}
	m.patched[creativeID] = urls
	c := m.creatives[creativeID]
	c.ThirdPartyURLs = urls
	return c, nil
}

// -- Fake run store ----------------------------------------------------------

type fakeRunStore struct {
	mu      sync.Mutex
	reports []domain.BatchReport
}

func (f *fakeRunStore) SaveRun(_ context.Context, r domain.BatchReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeRunStore) GetRun(_ context.Context, id string) (*domain.BatchReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reports {
		if f.reports[i].RunID == id {
			return &f.reports[i], nil
		}
	}
	return nil, domain.ErrRunNotFound
}

func (f *fakeRunStore) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

// -- Helpers -----------------------------------------------------------------

func display(id string, trackers ...domain.TrackerEntry) *domain.Creative {
	return &domain.Creative{
		CreativeID:     id,
		DisplayName:    "Creative " + id,
		CreativeType:   "CREATIVE_TYPE_STANDARD",
		ThirdPartyURLs: trackers,
	}
}

func newTestService(api ports.CreativeAPI, opts Options) *Service {
	reg := trackertype.Default()
	return NewService(api, reconcile.New(reg, domain.MergeKeyType), reg, opts)
}

func addImpression(creativeID, url string) domain.BatchItem {
	return domain.BatchItem{
		AdvertiserID: "9",
		CreativeID:   creativeID,
		Changes:      []domain.StagedChange{{EventType: "Impression", NewURL: url}},
	}
}

// -- Tests -------------------------------------------------------------------

func TestRunBatch_PartialFailure(t *testing.T) {
	api := newMockAPI(display("1"), display("2"), display("3"))
	api.fetchErr["2"] = errors.New("503 backend error")
	svc := newTestService(api, Options{})

	report := svc.RunBatch(context.Background(), []domain.BatchItem{
		addImpression("1", "http://a.com"),
		addImpression("2", "http://b.com"),
		addImpression("3", "http://c.com"),
	})

	require.Len(t, report.Items, 3)
	assert.Equal(t, domain.ItemSuccess, report.Items[0].Status)
	assert.Equal(t, domain.ItemFailed, report.Items[1].Status)
	assert.Equal(t, domain.ItemSuccess, report.Items[2].Status)
	assert.Contains(t, report.Items[1].Detail, "fetch failed")
	assert.Contains(t, report.Items[1].Detail, "503 backend error")
	assert.Equal(t, "1 added, 0 updated, 0 deleted, 0 unchanged", report.Items[0].Detail)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.DryRun)

	assert.Equal(t, []domain.TrackerEntry{{Type: typeImpression, URL: "http://a.com"}}, api.patched["1"])
	assert.Equal(t, []domain.TrackerEntry{{Type: typeImpression, URL: "http://c.com"}}, api.patched["3"])
	assert.NotContains(t, api.patched, "2")
}

func TestRunBatch_PatchFailure(t *testing.T) {
	api := newMockAPI(display("1"), display("2"))
	api.patchErr["1"] = errors.New("quota exceeded")
	svc := newTestService(api, Options{})

	report := svc.RunBatch(context.Background(), []domain.BatchItem{
		addImpression("1", "http://a.com"),
		addImpression("2", "http://b.com"),
	})

	assert.Equal(t, domain.ItemFailed, report.Items[0].Status)
	assert.Contains(t, report.Items[0].Detail, "patch failed: quota exceeded")
	assert.Equal(t, domain.ItemSuccess, report.Items[1].Status)

	// failed items stay out of the classification report
	rows := report.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].CreativeID)
}

func TestRunBatch_PreservesOrderWithWorkers(t *testing.T) {
	api := newMockAPI()
	var items []domain.BatchItem
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("%d", 1000+i)
		api.creatives[id] = display(id)
		items = append(items, addImpression(id, "http://x.com/"+id))
	}
	svc := newTestService(api, Options{Workers: 5})

	report := svc.RunBatch(context.Background(), items)

	require.Len(t, report.Items, 25)
	for i, r := range report.Items {
		assert.Equal(t, items[i].CreativeID, r.CreativeID)
		assert.Equal(t, domain.ItemSuccess, r.Status)
	}
	assert.Equal(t, 25, api.patches)
}

func TestRunBatch_Cancelled(t *testing.T) {
	api := newMockAPI(display("1"), display("2"))
	svc := newTestService(api, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := svc.RunBatch(ctx, []domain.BatchItem{
		addImpression("1", "http://a.com"),
		addImpression("2", "http://b.com"),
	})

	require.Len(t, report.Items, 2)
	for _, r := range report.Items {
		assert.True(t, IsCancelled(r))
	}
	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, api.fetches)
}

func TestRunBatch_ProgressAndHistory(t *testing.T) {
	api := newMockAPI(display("1"), display("2"), display("3"))
	store := &fakeRunStore{}

	var mu sync.Mutex
	var seen []int
	svc := newTestService(api, Options{
		Workers: 2,
		History: store,
		Progress: func(done, total int, _ domain.BatchItemResult) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			seen = append(seen, done)
		},
	})

	report := svc.RunBatch(context.Background(), []domain.BatchItem{
		addImpression("1", "http://a.com"),
		addImpression("2", "http://b.com"),
		addImpression("3", "http://c.com"),
	})

	assert.Equal(t, []int{1, 2, 3}, seen)
	require.Len(t, store.reports, 1)
	assert.Equal(t, report.RunID, store.reports[0].RunID)

	got, err := svc.GetRun(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Succeeded)
}

func TestRunBatch_NoChangesSkipsPatch(t *testing.T) {
	api := newMockAPI(display("1", domain.TrackerEntry{Type: typeImpression, URL: "http://a.com"}))
	svc := newTestService(api, Options{})

	report := svc.RunBatch(context.Background(), []domain.BatchItem{
		addImpression("1", "http://a.com"),
	})

	assert.Equal(t, domain.ItemSuccess, report.Items[0].Status)
	assert.Contains(t, report.Items[0].Detail, "no changes")
	assert.Zero(t, api.patches)
}

func TestRunBatch_InvalidItem(t *testing.T) {
	api := newMockAPI(display("1"))
	svc := newTestService(api, Options{})

	report := svc.RunBatch(context.Background(), []domain.BatchItem{{CreativeID: "1"}})

	assert.Equal(t, domain.ItemFailed, report.Items[0].Status)
	assert.Contains(t, report.Items[0].Detail, "AdvertiserID")
	assert.Zero(t, api.fetches)
}

func TestPlan_DoesNotPatch(t *testing.T) {
	api := newMockAPI(display("1",
		domain.TrackerEntry{Type: typeImpression, URL: "http://old.com"},
		domain.TrackerEntry{Type: typeClick, URL: "http://click.com"},
	))
	svc := newTestService(api, Options{})

	report := svc.Plan(context.Background(), []domain.BatchItem{{
		AdvertiserID: "9",
		CreativeID:   "1",
		Changes: []domain.StagedChange{
			{EventType: "Impression", ExistingURL: "http://old.com", NewURL: "http://new.com"},
			{EventType: "Click tracking", ExistingURL: "http://click.com", NewURL: "DELETE"},
		},
	}})

	assert.True(t, report.DryRun)
	assert.Zero(t, api.patches)
	require.Equal(t, domain.ItemSuccess, report.Items[0].Status)
	assert.Equal(t, "planned: 0 added, 1 updated, 1 deleted, 0 unchanged", report.Items[0].Detail)
	assert.Equal(t, []domain.TrackerEntry{{Type: typeImpression, URL: "http://new.com"}}, report.Items[0].Result.FinalTrackers)
}

func TestRunBatch_AmbiguousVariant(t *testing.T) {
	odd := display("1")
	odd.CreativeType = "CREATIVE_TYPE_SOMETHING_NEW"

	t.Run("falls back to standard", func(t *testing.T) {
		svc := newTestService(newMockAPI(odd), Options{})
		report := svc.Plan(context.Background(), []domain.BatchItem{addImpression("1", "http://a.com")})

		r := report.Items[0]
		assert.Equal(t, domain.ItemSuccess, r.Status)
		assert.Equal(t, domain.VariantStandard, r.Variant)
		require.NotEmpty(t, r.Result.Warnings)
		assert.Equal(t, domain.WarnVariantAmbiguous, r.Result.Warnings[len(r.Result.Warnings)-1].Code)
	})

	t.Run("strict fails the item", func(t *testing.T) {
		svc := newTestService(newMockAPI(odd), Options{StrictVariant: true})
		report := svc.Plan(context.Background(), []domain.BatchItem{addImpression("1", "http://a.com")})

		assert.Equal(t, domain.ItemFailed, report.Items[0].Status)
		assert.Contains(t, report.Items[0].Detail, "no known variant")
	})
}

func TestUpdateCreative(t *testing.T) {
	video := &domain.Creative{
		CreativeID:    "7",
		CreativeType:  "CREATIVE_TYPE_VIDEO",
		HostingSource: "HOSTING_SOURCE_HOSTED",
	}
	api := newMockAPI(video)
	svc := newTestService(api, Options{})

	item := domain.BatchItem{
		AdvertiserID: "9",
		CreativeID:   "7",
		Changes:      []domain.StagedChange{{EventType: "Start", NewURL: "http://start.com"}},
	}

	res, err := svc.UpdateCreative(context.Background(), item, true)
	require.NoError(t, err)
	assert.Equal(t, domain.VariantHostedVideo, res.Variant)
	assert.Zero(t, api.patches)

	res, err = svc.UpdateCreative(context.Background(), item, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemSuccess, res.Status)
	assert.Equal(t, []domain.TrackerEntry{{Type: typeStart, URL: "http://start.com"}}, api.patched["7"])

	_, err = svc.UpdateCreative(context.Background(), domain.BatchItem{AdvertiserID: "9", CreativeID: "7"}, false)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestUpdateCreative_AppendKeepsExistingTrackers(t *testing.T) {
	api := newMockAPI(display("1", domain.TrackerEntry{Type: typeImpression, URL: "https://old"}))
	svc := newTestService(api, Options{})

	res, err := svc.UpdateCreative(context.Background(), domain.BatchItem{
		AdvertiserID: "9",
		CreativeID:   "1",
		Changes: []domain.StagedChange{
			{EventType: "Impression", NewURL: "https://a", Append: true},
			{EventType: "Impression", NewURL: "https://b", Append: true},
		},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, domain.ItemSuccess, res.Status)
	assert.Equal(t, "2 added, 0 updated, 0 deleted, 1 unchanged", res.Detail)
	assert.Equal(t, []domain.TrackerEntry{
		{Type: typeImpression, URL: "https://old"},
		{Type: typeImpression, URL: "https://a"},
		{Type: typeImpression, URL: "https://b"},
	}, api.patched["1"])
	assert.Empty(t, res.Result.Warnings)
}

func TestUpdateCreative_AuthExpired(t *testing.T) {
	api := newMockAPI(display("1"))
	api.fetchErr["1"] = fmt.Errorf("%w: token revoked", domain.ErrAuthExpired)
	svc := newTestService(api, Options{})

	res, err := svc.UpdateCreative(context.Background(), addImpression("1", "http://a.com"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
	assert.Equal(t, domain.ItemFailed, res.Status)
}

func TestGetCreative(t *testing.T) {
	api := newMockAPI(display("1",
		domain.TrackerEntry{Type: typeImpression, URL: "http://a.com"},
		domain.TrackerEntry{Type: "THIRD_PARTY_URL_TYPE_FUTURE", URL: "http://f.com"},
	))
	svc := newTestService(api, Options{})

	view, err := svc.GetCreative(context.Background(), "9", "1")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantStandard, view.Variant)
	assert.False(t, view.VariantAmbiguous)
	assert.Equal(t, []ports.LabeledURL{
		{EventType: "Impression", Type: typeImpression, URL: "http://a.com"},
		{EventType: "THIRD_PARTY_URL_TYPE_FUTURE", Type: "THIRD_PARTY_URL_TYPE_FUTURE", URL: "http://f.com"},
	}, view.Trackers)

	_, err = svc.GetCreative(context.Background(), "9", "missing")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestExportTemplate(t *testing.T) {
	api := newMockAPI(
		display("1",
			domain.TrackerEntry{Type: typeImpression, URL: "http://a.com"},
			domain.TrackerEntry{Type: typeClick, URL: "http://b.com"},
		),
		display("2"),
	)
	svc := newTestService(api, Options{Workers: 3})

	rows, err := svc.ExportTemplate(context.Background(), "9", []string{"1", " 2 ", "1", ""})
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateRow{
		{AdvertiserID: "9", CreativeID: "1", CreativeName: "Creative 1", EventType: "Impression", ExistingURL: "http://a.com"},
		{AdvertiserID: "9", CreativeID: "1", CreativeName: "Creative 1", EventType: "Click tracking", ExistingURL: "http://b.com"},
		{AdvertiserID: "9", CreativeID: "2", CreativeName: "Creative 2"},
	}, rows)
	assert.Equal(t, 2, api.fetches)

	_, err = svc.ExportTemplate(context.Background(), "9", []string{"1", "404"})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	_, err = svc.ExportTemplate(context.Background(), "9", nil)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestGroupRows(t *testing.T) {
	rows := []domain.TemplateRow{
		{CreativeID: "1", EventType: "Impression", NewURL: "http://a.com"},
		{AdvertiserID: "5", CreativeID: "2", EventType: "Impression", NewURL: "http://b.com"},
		{CreativeID: "1", EventType: "Click tracking", NewURL: "http://c.com"},
	}

	items, err := GroupRows(rows, "9")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "9", items[0].AdvertiserID)
	assert.Equal(t, "1", items[0].CreativeID)
	assert.Len(t, items[0].Changes, 2)
	assert.Equal(t, "5", items[1].AdvertiserID)

	_, err = GroupRows(rows, "")
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(newMockAPI(), nil, nil, Options{Workers: -3})
	assert.Equal(t, 1, svc.workers)
	assert.Equal(t, 30*time.Second, svc.callTimeout)
	assert.Equal(t, 2*time.Hour, svc.sessionTTL)

	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	_, err = svc.GetRun(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
