// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/mock"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

// ── In-memory repositories ───────────────────────────────────────────────

// memRecords is an in-memory RecordRepository. Writes only land in rows and
// meta on Commit, so tests can observe transactional behaviour through the
// commit and rollback counters.
type memRecords struct {
	mu        sync.Mutex
	rows      map[string]map[string]models.LocalRecord
	meta      map[string]models.SyncMetadata
	beginErr  error
	upsertErr error
	commits   int
	rollbacks int
}

func newMemRecords() *memRecords {
	return &memRecords{
		rows: make(map[string]map[string]models.LocalRecord),
		meta: make(map[string]models.SyncMetadata),
	}
}

func (m *memRecords) seed(records ...models.LocalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if m.rows[rec.Entity] == nil {
			m.rows[rec.Entity] = make(map[string]models.LocalRecord)
		}
		m.rows[rec.Entity][rec.ID] = rec
	}
}

func (m *memRecords) count(entity string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[entity])
}

func (m *memRecords) stats() (commits, rollbacks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits, m.rollbacks
}

func (m *memRecords) GetRecords(_ context.Context, entity string, _ store.RecordQuery) ([]models.LocalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LocalRecord, 0, len(m.rows[entity]))
	for _, rec := range m.rows[entity] {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memRecords) GetRecordsByIDs(_ context.Context, entity string, ids []string) ([]models.LocalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LocalRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m.rows[entity][id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRecords) GetMetadata(_ context.Context, entity string) (models.SyncMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	md, ok := m.meta[entity]
	if !ok {
		return models.SyncMetadata{}, store.ErrMetadataNotFound
	}
	return md, nil
}

func (m *memRecords) GetAllMetadata(_ context.Context) ([]models.SyncMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SyncMetadata, 0, len(m.meta))
	for _, md := range m.meta {
		out = append(out, md)
	}
	return out, nil
}

func (m *memRecords) Begin(_ context.Context) (store.RecordTx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return &memTx{parent: m, staged: make(map[string][]models.LocalRecord)}, nil
}

type memTx struct {
	parent *memRecords
	staged map[string][]models.LocalRecord
	meta   []models.SyncMetadata
	done   bool
}

func (tx *memTx) UpsertRecords(_ context.Context, entity string, records []models.LocalRecord) error {
	if tx.parent.upsertErr != nil {
		return tx.parent.upsertErr
	}
	tx.staged[entity] = append(tx.staged[entity], records...)
	return nil
}

func (tx *memTx) WriteMetadata(_ context.Context, meta models.SyncMetadata) error {
	tx.meta = append(tx.meta, meta)
	return nil
}

func (tx *memTx) Commit() error {
	tx.parent.mu.Lock()
	defer tx.parent.mu.Unlock()
	tx.done = true
	tx.parent.commits++
	for entity, records := range tx.staged {
		if tx.parent.rows[entity] == nil {
			tx.parent.rows[entity] = make(map[string]models.LocalRecord)
		}
		for _, rec := range records {
			tx.parent.rows[entity][rec.ID] = rec
		}
	}
	for _, md := range tx.meta {
		tx.parent.meta[md.Entity] = md
	}
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		// The deferred rollback after a successful commit.
		return nil
	}
	tx.parent.mu.Lock()
	defer tx.parent.mu.Unlock()
	tx.done = true
	tx.parent.rollbacks++
	return nil
}

// memState is an in-memory StateRepository.
type memState struct {
	mu      sync.Mutex
	markers map[string]time.Time
	summary *models.DashboardSummary
}

func newMemState() *memState {
	return &memState{markers: make(map[string]time.Time)}
}

func (m *memState) seedMarker(key string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[key] = at
}

func (m *memState) GetMarker(_ context.Context, key string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.markers[key]
	if !ok {
		return time.Time{}, store.ErrStateNotFound
	}
	return at, nil
}

func (m *memState) SetMarker(_ context.Context, key string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[key] = at
	return nil
}

func (m *memState) GetSummary(_ context.Context) (models.DashboardSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.summary == nil {
		return models.DashboardSummary{}, store.ErrSummaryNotFound
	}
	return *m.summary, nil
}

func (m *memState) SaveSummary(_ context.Context, summary models.DashboardSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = &summary
	return nil
}

// ── Harness ──────────────────────────────────────────────────────────────

type managerHarness struct {
	svc     *syncManager
	adapter *mock.MockServerAdapter
	records *memRecords
	state   *memState
	probe   *netprobe.ManualProbe
	clock   *clockwork.FakeClock
	events  <-chan models.SyncEvent
}

func newTestManager(t *testing.T, ctrl *gomock.Controller, cfg config.AgentSync) *managerHarness {
	t.Helper()

	if cfg.MinGap == 0 {
		cfg.MinGap = 30 * time.Second
	}
	if cfg.PageLimit == 0 {
		cfg.PageLimit = 25
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 40
	}
	if len(cfg.Entities) == 0 {
		cfg.Entities = []config.Entity{{Name: "leads", Endpoint: "/api/v1/leads"}}
	}

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	records := newMemRecords()
	state := newMemState()
	probe := netprobe.NewManualProbe(true)
	bus := events.NewBus(0, logger.Nop())
	clock := clockwork.NewFakeClock()

	eventCh, unsubscribe := bus.Subscribe()
	t.Cleanup(unsubscribe)

	svc, ok := NewSyncManager(
		cfg,
		&store.Storages{Records: records, State: state},
		serverAdapter,
		probe,
		bus,
		auth.NewLogNotifier(logger.Nop()),
		clock,
		logger.Nop(),
	).(*syncManager)
	require.True(t, ok)

	return &managerHarness{
		svc:     svc,
		adapter: serverAdapter,
		records: records,
		state:   state,
		probe:   probe,
		clock:   clock,
		events:  eventCh,
	}
}

// collectEvents drains everything the bus already delivered. The manager
// publishes synchronously, so after a Sync call returns its events are all
// buffered.
func collectEvents(ch <-chan models.SyncEvent) []models.SyncEvent {
	var out []models.SyncEvent
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func eventTypes(list []models.SyncEvent) []models.EventType {
	out := make([]models.EventType, 0, len(list))
	for _, e := range list {
		out = append(out, e.Type)
	}
	return out
}

func page(items []models.RemoteRecord, total, offset, limit int) models.Page {
	return models.Page{Items: items, Total: total, Offset: offset, Limit: limit}
}

func remoteLeads(from, n int) []models.RemoteRecord {
	out := make([]models.RemoteRecord, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, models.RemoteRecord{
			ID:          fmt.Sprintf("L-%d", i),
			DisplayName: fmt.Sprintf("Lead %d", i),
			Status:      "open",
			UpdatedAt:   "2026-08-24T09:00:00Z",
		})
	}
	return out
}

// entityNamed matches a models.SyncEntity argument by name. SyncEntity
// carries a func field, so plain value matching cannot be used.
type entityNamed string

func (m entityNamed) Matches(x any) bool {
	entity, ok := x.(models.SyncEntity)
	return ok && entity.Name == string(m)
}

func (m entityNamed) String() string {
	return "entity " + string(m)
}

// ── Happy path ───────────────────────────────────────────────────────────

func TestSync_FirstRunPersistsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{
		Entities: []config.Entity{
			{Name: "leads", Endpoint: "/api/v1/leads"},
			{Name: "notifications", Endpoint: "/api/v1/notifications"},
		},
	})

	leads := remoteLeads(1, 30)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(leads[:25], 30, 0, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 25, 25).
		Return(page(leads[25:], 30, 25, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("notifications"), 0, 25).
		Return(page([]models.RemoteRecord{
			{ID: "N-1", DisplayName: "Welcome", Status: "NEW"},
		}, 1, 0, 25), nil)

	ctx := context.Background()
	result := h.svc.Sync(ctx, models.SourceManual)

	require.Equal(t, models.OutcomeCompleted, result.Outcome)
	require.NotNil(t, result.Run)
	assert.True(t, result.Run.Success)
	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, models.SourceManual, result.Run.Source)
	assert.Equal(t, map[string]int{"leads": 30, "notifications": 1}, result.Run.RecordCounts)
	assert.Equal(t, h.clock.Now().Add(30*time.Second), result.NextAllowedSyncAt)

	// One committed transaction per entity, nothing rolled back.
	commits, rollbacks := h.records.stats()
	assert.Equal(t, 2, commits)
	assert.Zero(t, rollbacks)
	assert.Equal(t, 30, h.records.count("leads"))
	assert.Equal(t, 1, h.records.count("notifications"))

	// The notifications processor normalised the legacy status label.
	stored, err := h.records.GetRecordsByIDs(ctx, "notifications", []string{"N-1"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "unread", stored[0].Status)

	got := collectEvents(h.events)
	require.Len(t, got, 5)
	assert.Equal(t, models.EventSyncStarted, got[0].Type)
	assert.Equal(t, models.SourceManual, got[0].Source)
	assert.Equal(t, result.Run.ID, got[0].RunID)
	assert.Equal(t, "leads", got[1].Entity)
	assert.Equal(t, 1, got[1].Page)
	assert.Equal(t, 2, got[1].TotalPages)
	assert.Equal(t, "leads", got[2].Entity)
	assert.Equal(t, 2, got[2].Page)
	assert.Equal(t, "notifications", got[3].Entity)
	assert.Equal(t, 1, got[3].TotalPages)
	assert.Equal(t, models.EventSyncFinished, got[4].Type)
	assert.Equal(t, result.Run.RecordCounts, got[4].RecordCounts)

	// Both throttle markers were persisted for the next process.
	last, err := h.state.GetMarker(ctx, store.MarkerLastSuccessAt)
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now(), last)
	next, err := h.state.GetMarker(ctx, store.MarkerNextAllowedSyncAt)
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now().Add(30*time.Second), next)

	status := h.svc.Status(ctx)
	assert.False(t, status.Running)
	assert.Equal(t, last, status.LastSuccessAt)
	assert.Equal(t, next, status.NextAllowedSyncAt)
}

// Sixty leads over three pages, two of them already cached unchanged: 58
// records written in one transaction, three progress events, metadata
// stamped with the run time.
func TestSync_RepeatRunWritesOnlyChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})

	leads := remoteLeads(1, 60)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(leads[:25], 60, 0, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 25, 25).
		Return(page(leads[25:50], 60, 25, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 50, 25).
		Return(page(leads[50:], 60, 50, 25), nil)

	h.records.seed(localRecords("leads", []models.RemoteRecord{leads[3], leads[40]}, h.clock.Now())...)

	ctx := context.Background()
	result := h.svc.Sync(ctx, models.SourceManual)

	require.Equal(t, models.OutcomeCompleted, result.Outcome)
	assert.Equal(t, map[string]int{"leads": 58}, result.Run.RecordCounts)

	commits, _ := h.records.stats()
	assert.Equal(t, 1, commits)
	assert.Equal(t, 60, h.records.count("leads"))

	md, err := h.records.GetMetadata(ctx, "leads")
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now(), md.LastSyncAt)

	got := collectEvents(h.events)
	require.Len(t, got, 5)
	for i, e := range got[1:4] {
		assert.Equal(t, models.EventSyncProgress, e.Type)
		assert.Equal(t, i+1, e.Page)
		assert.Equal(t, 3, e.TotalPages)
	}
}

func TestSync_InvalidRecordsDroppedRunStillSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page([]models.RemoteRecord{
			{ID: "L-1", DisplayName: "One"},
			{ID: "", DisplayName: "Dropped, no id"},
			{ID: "L-3", DisplayName: "Three"},
			{ID: "L-4", DisplayName: "Four"},
		}, 4, 0, 25), nil)

	result := h.svc.Sync(context.Background(), models.SourceManual)

	require.Equal(t, models.OutcomeCompleted, result.Outcome)
	assert.Equal(t, map[string]int{"leads": 3}, result.Run.RecordCounts)
	assert.Equal(t, 3, h.records.count("leads"))
}

// ── Exclusion and throttling ─────────────────────────────────────────────

func TestSync_ConcurrentRequestsCollapse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})

	fetchEntered := make(chan struct{})
	releaseFetch := make(chan struct{})
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		DoAndReturn(func(context.Context, models.SyncEntity, int, int) (models.Page, error) {
			close(fetchEntered)
			<-releaseFetch
			return page(remoteLeads(1, 1), 1, 0, 25), nil
		})

	first := make(chan models.SyncResult, 1)
	go func() {
		first <- h.svc.Sync(context.Background(), models.SourceManual)
	}()
	<-fetchEntered

	// With the lock held inside the transport call, every further request
	// must collapse without starting anything.
	var wg sync.WaitGroup
	results := make([]models.SyncResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.svc.Sync(context.Background(), models.SourceManual)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, models.OutcomeAlreadyRunning, res.Outcome)
		assert.Nil(t, res.Run)
	}
	assert.True(t, h.svc.Status(context.Background()).Running)

	close(releaseFetch)
	res := <-first
	assert.Equal(t, models.OutcomeCompleted, res.Outcome)

	// Exactly one run's worth of events; the single FetchPage expectation
	// above already pinned the transport to one call.
	assert.Equal(t, []models.EventType{
		models.EventSyncStarted,
		models.EventSyncProgress,
		models.EventSyncFinished,
	}, eventTypes(collectEvents(h.events)))
}

func TestSync_ThrottledInsideMinimumGap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{MinGap: 30 * time.Second})

	// Two runs reach the server: the first, and the one after the gap.
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(nil, 0, 0, 25), nil).
		Times(2)

	ctx := context.Background()
	first := h.svc.Sync(ctx, models.SourceManual)
	require.Equal(t, models.OutcomeCompleted, first.Outcome)
	windowEnd := h.clock.Now().Add(30 * time.Second)
	collectEvents(h.events)

	h.clock.Advance(10 * time.Second)
	second := h.svc.Sync(ctx, models.SourceManual)
	assert.Equal(t, models.OutcomeThrottled, second.Outcome)
	assert.Nil(t, second.Run)
	assert.Equal(t, windowEnd, second.NextAllowedSyncAt)
	assert.Empty(t, collectEvents(h.events), "a throttled request must not emit events")

	h.clock.Advance(25 * time.Second)
	third := h.svc.Sync(ctx, models.SourceManual)
	assert.Equal(t, models.OutcomeCompleted, third.Outcome)
}

func TestSync_StatusUpdateBypassesThrottle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{MinGap: time.Minute})

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(nil, 0, 0, 25), nil).
		Times(2)

	ctx := context.Background()
	require.Equal(t, models.OutcomeCompleted, h.svc.Sync(ctx, models.SourceManual).Outcome)

	// Well inside the window a reconciliation still goes through.
	h.clock.Advance(time.Second)
	res := h.svc.Sync(ctx, models.SourceStatusUpdate)
	assert.Equal(t, models.OutcomeCompleted, res.Outcome)
}

func TestForceSync_BypassesThrottleNotLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{MinGap: time.Minute})
	empty := page(nil, 0, 0, 25)

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(empty, nil)

	ctx := context.Background()
	require.Equal(t, models.OutcomeCompleted, h.svc.Sync(ctx, models.SourceManual).Outcome)

	h.clock.Advance(time.Second)
	assert.Equal(t, models.OutcomeThrottled, h.svc.Sync(ctx, models.SourceManual).Outcome)

	// A forced refresh ignores the window...
	fetchEntered := make(chan struct{})
	releaseFetch := make(chan struct{})
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		DoAndReturn(func(context.Context, models.SyncEntity, int, int) (models.Page, error) {
			close(fetchEntered)
			<-releaseFetch
			return empty, nil
		})

	forced := make(chan models.SyncResult, 1)
	go func() {
		forced <- h.svc.ForceSync(ctx, models.SourcePullToRefresh)
	}()
	<-fetchEntered

	// ...but not the exclusion lock.
	assert.Equal(t, models.OutcomeAlreadyRunning, h.svc.ForceSync(ctx, models.SourcePullToRefresh).Outcome)

	close(releaseFetch)
	assert.Equal(t, models.OutcomeCompleted, (<-forced).Outcome)
}

func TestSync_OfflineFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No FetchPage expectation: any transport call fails the test.
	h := newTestManager(t, ctrl, config.AgentSync{})
	h.probe.SetOnline(false)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureOffline, res.Reason)
	assert.Nil(t, res.Run, "an offline rejection never becomes a run")
	assert.Empty(t, collectEvents(h.events))
	assert.False(t, h.svc.Status(context.Background()).Running)
}

// ── Failure handling ─────────────────────────────────────────────────────

// A server failure on the second page aborts the whole run: nothing of the
// entity is committed and the remaining entities are never fetched.
func TestSync_TransportFailureAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{
		Entities: []config.Entity{
			{Name: "leads", Endpoint: "/api/v1/leads"},
			{Name: "notifications", Endpoint: "/api/v1/notifications"},
		},
	})

	leads := remoteLeads(1, 60)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(leads[:25], 60, 0, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 25, 25).
		Return(models.Page{}, fmt.Errorf("%w: status 502", adapter.ErrServerError))

	ctx := context.Background()
	res := h.svc.Sync(ctx, models.SourceManual)

	require.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureServerError, res.Reason)
	assert.Contains(t, res.Error, "status 502")
	require.NotNil(t, res.Run)
	assert.False(t, res.Run.Success)
	assert.Equal(t, map[string]int{"leads": 0}, res.Run.RecordCounts)

	commits, _ := h.records.stats()
	assert.Zero(t, commits)
	assert.Zero(t, h.records.count("leads"))
	_, err := h.records.GetMetadata(ctx, "leads")
	assert.ErrorIs(t, err, store.ErrMetadataNotFound)

	got := collectEvents(h.events)
	require.Equal(t, []models.EventType{
		models.EventSyncStarted,
		models.EventSyncProgress,
		models.EventSyncFailed,
	}, eventTypes(got))
	assert.Equal(t, models.FailureServerError, got[2].Reason)

	// A failed run leaves the throttle window untouched.
	assert.True(t, h.svc.Status(ctx).LastSuccessAt.IsZero())
}

func TestSync_DatabaseErrorRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})
	h.records.upsertErr = fmt.Errorf("%w: disk I/O error", store.ErrExecutingStatement)

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(remoteLeads(1, 2), 2, 0, 25), nil)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	require.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureDatabaseError, res.Reason)

	commits, rollbacks := h.records.stats()
	assert.Zero(t, commits)
	assert.Equal(t, 1, rollbacks)
	assert.Zero(t, h.records.count("leads"))
}

func TestSync_BeginFailureMapsToDatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})
	h.records.beginErr = fmt.Errorf("%w: database is locked", store.ErrBeginningTransaction)

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(remoteLeads(1, 1), 1, 0, 25), nil)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureDatabaseError, res.Reason)
}

func TestSync_AuthExpiredSignalsReauth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})
	notifier := mock.NewMockReauthNotifier(ctrl)
	h.svc.reauth = notifier

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(models.Page{}, fmt.Errorf("%w: token rejected", adapter.ErrAuthExpired))
	notifier.EXPECT().NotifyReauthRequired(gomock.Any(), gomock.Any())

	res := h.svc.Sync(context.Background(), models.SourceManual)

	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureAuthExpired, res.Reason)
}

// An empty page below the promised total means the server lied about its
// collection; the run fails rather than looping or silently under-syncing.
func TestSync_ShortPageFailsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})

	leads := remoteLeads(1, 25)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(leads, 60, 0, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 25, 25).
		Return(page(nil, 60, 25, 25), nil)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	require.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureServerError, res.Reason)
	assert.Contains(t, res.Error, "short page")

	commits, _ := h.records.stats()
	assert.Zero(t, commits)
}

// The page ceiling cuts pagination without failing the run, so a huge (or
// lying) collection still syncs what was fetched.
func TestSync_PageCeilingStopsPaginationEarly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{MaxPages: 2})

	leads := remoteLeads(1, 50)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		Return(page(leads[:25], 100, 0, 25), nil)
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 25, 25).
		Return(page(leads[25:], 100, 25, 25), nil)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	require.Equal(t, models.OutcomeCompleted, res.Outcome)
	assert.Equal(t, map[string]int{"leads": 50}, res.Run.RecordCounts)
	assert.Equal(t, 50, h.records.count("leads"))
}

func TestSync_PanicRecoveredAsUnknownFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{
		Entities: []config.Entity{{Name: "notifications", Endpoint: "/api/v1/notifications"}},
	})
	h.svc.entities[0].Processor = func([]models.RemoteRecord) []models.RemoteRecord {
		panic("boom")
	}

	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("notifications"), 0, 25).
		Return(page([]models.RemoteRecord{{ID: "N-1", DisplayName: "Welcome"}}, 1, 0, 25), nil)

	res := h.svc.Sync(context.Background(), models.SourceManual)

	require.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.Equal(t, models.FailureUnknown, res.Reason)
	assert.Contains(t, res.Error, "panic")
	assert.Equal(t, []models.EventType{
		models.EventSyncStarted,
		models.EventSyncFailed,
	}, eventTypes(collectEvents(h.events)))

	// The lock was released on the way out: the next request reaches the
	// connectivity check instead of collapsing.
	h.probe.SetOnline(false)
	next := h.svc.Sync(context.Background(), models.SourceManual)
	assert.Equal(t, models.FailureOffline, next.Reason)
}

// ── Cancellation ─────────────────────────────────────────────────────────

func TestCancel_AbortsRunAndQueuedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestManager(t, ctrl, config.AgentSync{})

	fetchEntered := make(chan struct{})
	h.adapter.EXPECT().FetchPage(gomock.Any(), entityNamed("leads"), 0, 25).
		DoAndReturn(func(ctx context.Context, _ models.SyncEntity, _, _ int) (models.Page, error) {
			close(fetchEntered)
			<-ctx.Done()
			return models.Page{}, ctx.Err()
		})

	inFlight := make(chan models.SyncResult, 1)
	go func() {
		inFlight <- h.svc.Sync(context.Background(), models.SourceManual)
	}()
	<-fetchEntered

	queued := make(chan models.SyncResult, 1)
	go func() {
		queued <- h.svc.Sync(context.Background(), models.SourceStatusUpdate)
	}()
	require.Eventually(t, func() bool {
		return h.svc.lock.Waiters() == 1
	}, time.Second, time.Millisecond, "status update should queue behind the run")

	h.svc.Cancel()

	queuedRes := <-queued
	assert.Equal(t, models.OutcomeFailed, queuedRes.Outcome)
	assert.Equal(t, models.FailureUnknown, queuedRes.Reason)
	assert.Contains(t, queuedRes.Error, "cancelled")

	runRes := <-inFlight
	assert.Equal(t, models.OutcomeFailed, runRes.Outcome)
	require.NotNil(t, runRes.Run)
	assert.False(t, runRes.Run.Success)

	assert.False(t, h.svc.Status(context.Background()).Running)
}

// ── Markers across restarts ──────────────────────────────────────────────

func TestStatus_WarmStartsFromPersistedMarkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No FetchPage expectation: the persisted window must throttle without
	// touching the network.
	h := newTestManager(t, ctrl, config.AgentSync{MinGap: 30 * time.Second})

	last := h.clock.Now().Add(-10 * time.Second)
	next := last.Add(30 * time.Second)
	h.state.seedMarker(store.MarkerLastSuccessAt, last)
	h.state.seedMarker(store.MarkerNextAllowedSyncAt, next)

	status := h.svc.Status(context.Background())
	assert.False(t, status.Running)
	assert.Equal(t, last, status.LastSuccessAt)
	assert.Equal(t, next, status.NextAllowedSyncAt)

	res := h.svc.Sync(context.Background(), models.SourceManual)
	assert.Equal(t, models.OutcomeThrottled, res.Outcome)
	assert.Equal(t, next, res.NextAllowedSyncAt)
}
