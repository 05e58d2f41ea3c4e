// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/mutex"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/internal/validators"
	"github.com/pocketcrm/go-sync/models"
)

type syncManager struct {
	records   store.RecordRepository
	state     store.StateRepository
	adapter   adapter.ServerAdapter
	probe     netprobe.Probe
	bus       *events.Bus
	reauth    auth.ReauthNotifier
	filter    ChangeFilter
	validator validators.Validator
	clock     clockwork.Clock
	log       *logger.Logger

	lock      *mutex.Mutex
	entities  []models.SyncEntity
	minGap    time.Duration
	pageLimit int
	maxPages  int

	runMu     sync.Mutex
	runCancel context.CancelFunc

	markerMu      sync.Mutex
	markersLoaded bool
	lastSuccessAt time.Time
	nextAllowedAt time.Time
}

// NewSyncManager wires the sync pipeline from its collaborators. The
// exclusion lock, change filter and record validator are owned internally.
func NewSyncManager(
	cfg config.AgentSync,
	storages *store.Storages,
	serverAdapter adapter.ServerAdapter,
	probe netprobe.Probe,
	bus *events.Bus,
	reauth auth.ReauthNotifier,
	clock clockwork.Clock,
	log *logger.Logger,
) SyncManager {
	return &syncManager{
		records:   storages.Records,
		state:     storages.State,
		adapter:   serverAdapter,
		probe:     probe,
		bus:       bus,
		reauth:    reauth,
		filter:    NewChangeFilter(),
		validator: validators.NewRecordValidator(),
		clock:     clock,
		log:       log,
		lock:      mutex.New(),
		entities:  buildSyncEntities(cfg.Entities),
		minGap:    cfg.MinGap,
		pageLimit: cfg.PageLimit,
		maxPages:  cfg.MaxPages,
	}
}

// Sync implements SyncManager.
func (s *syncManager) Sync(ctx context.Context, source models.SyncSource) models.SyncResult {
	return s.run(ctx, source, false)
}

// ForceSync implements SyncManager.
func (s *syncManager) ForceSync(ctx context.Context, source models.SyncSource) models.SyncResult {
	return s.run(ctx, source, true)
}

// Cancel implements SyncManager. Queued requests are rejected first so the
// in-flight run cannot hand the lock to one of them while unwinding; the
// run itself observes the cancellation at its next suspension point.
func (s *syncManager) Cancel() {
	s.lock.CancelAll()

	s.runMu.Lock()
	cancel := s.runCancel
	s.runMu.Unlock()
	if cancel != nil {
		cancel()
	}

	s.log.Info().
		Str("func", "syncManager.Cancel").
		Msg("sync cancelled, queued requests rejected")
}

// Status implements SyncManager.
func (s *syncManager) Status(ctx context.Context) models.SyncStatus {
	s.loadMarkers(ctx)

	s.markerMu.Lock()
	last, next := s.lastSuccessAt, s.nextAllowedAt
	s.markerMu.Unlock()

	return models.SyncStatus{
		Running:           s.lock.IsLocked(),
		LastSuccessAt:     last,
		NextAllowedSyncAt: next,
	}
}

// run drives one request through the pipeline: exclusion, throttle window,
// connectivity check, then the per-entity fetch/filter/persist loop.
func (s *syncManager) run(ctx context.Context, source models.SyncSource, force bool) models.SyncResult {
	release, result := s.acquire(ctx, source)
	if release == nil {
		return result
	}
	defer release()

	// A post-mutation reconciliation must land even inside the window.
	if !force && source != models.SourceStatusUpdate {
		if next, ok := s.throttled(ctx); ok {
			s.log.Debug().
				Str("func", "syncManager.run").
				Str("source", string(source)).
				Time("next_allowed_at", next).
				Msg("sync request throttled")
			return models.SyncResult{Outcome: models.OutcomeThrottled, NextAllowedSyncAt: next}
		}
	}

	// Offline fails before a run exists: no run id, no events, no network.
	if !s.probe.Online() {
		s.log.Info().
			Str("func", "syncManager.run").
			Str("source", string(source)).
			Msg("sync rejected, device offline")
		return models.SyncResult{
			Outcome: models.OutcomeFailed,
			Reason:  models.FailureOffline,
			Error:   "device is offline",
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runMu.Lock()
	s.runCancel = cancel
	s.runMu.Unlock()
	defer func() {
		s.runMu.Lock()
		s.runCancel = nil
		s.runMu.Unlock()
		cancel()
	}()

	run := &models.SyncRun{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: s.clock.Now(),
	}

	s.bus.Publish(models.SyncEvent{
		Type:   models.EventSyncStarted,
		RunID:  run.ID,
		Source: source,
		At:     run.StartedAt,
	})

	err := s.runEntities(runCtx, run)
	run.CompletedAt = s.clock.Now()

	if err != nil {
		return s.finishFailed(ctx, run, err)
	}
	return s.finishCompleted(ctx, run)
}

// acquire takes the exclusion lock per source policy: a status update
// queues FIFO so the reconciliation eventually lands, every other source
// collapses into the in-flight run. A nil release means the request did not
// get the lock and result carries the outcome.
func (s *syncManager) acquire(ctx context.Context, source models.SyncSource) (mutex.ReleaseFunc, models.SyncResult) {
	if source == models.SourceStatusUpdate {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, models.SyncResult{
				Outcome: models.OutcomeFailed,
				Reason:  models.FailureUnknown,
				Error:   fmt.Errorf("waiting for sync lock: %w", err).Error(),
			}
		}
		return release, models.SyncResult{}
	}

	release, ok := s.lock.TryAcquire()
	if !ok {
		return nil, models.SyncResult{Outcome: models.OutcomeAlreadyRunning}
	}
	return release, models.SyncResult{}
}

// throttled reports whether the request lands inside the minimum gap after
// the previous successful run.
func (s *syncManager) throttled(ctx context.Context) (time.Time, bool) {
	s.loadMarkers(ctx)

	s.markerMu.Lock()
	next := s.nextAllowedAt
	s.markerMu.Unlock()

	if !next.IsZero() && s.clock.Now().Before(next) {
		return next, true
	}
	return time.Time{}, false
}

// loadMarkers warm-starts the throttle window from the persisted markers,
// once. Missing markers mean a fresh install; a failed read only costs an
// earlier first sync, so it is logged and ignored.
func (s *syncManager) loadMarkers(ctx context.Context) {
	s.markerMu.Lock()
	defer s.markerMu.Unlock()
	if s.markersLoaded {
		return
	}
	s.markersLoaded = true

	last, err := s.state.GetMarker(ctx, store.MarkerLastSuccessAt)
	switch {
	case err == nil:
		s.lastSuccessAt = last
	case !errors.Is(err, store.ErrStateNotFound):
		s.log.Warn().
			Str("func", "syncManager.loadMarkers").
			Err(err).
			Msg("failed to load last-success marker")
	}

	next, err := s.state.GetMarker(ctx, store.MarkerNextAllowedSyncAt)
	switch {
	case err == nil:
		s.nextAllowedAt = next
	case !errors.Is(err, store.ErrStateNotFound):
		s.log.Warn().
			Str("func", "syncManager.loadMarkers").
			Err(err).
			Msg("failed to load next-allowed marker")
	}
}

// runEntities walks the configured entities sequentially. A panic anywhere
// in the pipeline is converted into an error so the caller still publishes
// a failure event and releases the lock.
func (s *syncManager) runEntities(ctx context.Context, run *models.SyncRun) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync pipeline panic: %v", r)
		}
	}()

	counts := make(map[string]int, len(s.entities))
	run.RecordCounts = counts

	for _, entity := range s.entities {
		if err = ctx.Err(); err != nil {
			counts[entity.Name] = 0
			return err
		}

		var persisted int
		persisted, err = s.syncEntity(ctx, run, entity)
		if err != nil {
			counts[entity.Name] = 0
			return err
		}
		counts[entity.Name] = persisted
	}
	return nil
}

// syncEntity pulls one entity's pages, validates and filters them, then
// persists the changed subset and the entity's sync timestamp in a single
// transaction. The returned count is records actually written.
func (s *syncManager) syncEntity(ctx context.Context, run *models.SyncRun, entity models.SyncEntity) (int, error) {
	limit := entity.PageLimit
	if limit <= 0 {
		limit = s.pageLimit
	}

	incoming, err := s.fetchEntity(ctx, run, entity, limit)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(incoming))
	for _, rec := range incoming {
		ids = append(ids, rec.ID)
	}
	cached, err := s.records.GetRecordsByIDs(ctx, entity.Name, ids)
	if err != nil {
		return 0, fmt.Errorf("load cached %s records: %w", entity.Name, err)
	}

	changed := s.filter.FilterChanged(incoming, cached)
	syncedAt := s.clock.Now()

	tx, err := s.records.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin %s transaction: %w", entity.Name, err)
	}
	defer tx.Rollback()

	if err = tx.UpsertRecords(ctx, entity.Name, localRecords(entity.Name, changed, syncedAt)); err != nil {
		return 0, fmt.Errorf("persist %s records: %w", entity.Name, err)
	}
	if err = tx.WriteMetadata(ctx, models.SyncMetadata{Entity: entity.Key(), LastSyncAt: syncedAt}); err != nil {
		return 0, fmt.Errorf("write %s sync metadata: %w", entity.Name, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s transaction: %w", entity.Name, err)
	}

	s.log.Debug().
		Str("func", "syncManager.syncEntity").
		Str("entity", entity.Name).
		Int("fetched", len(incoming)).
		Int("persisted", len(changed)).
		Msg("entity synced")

	return len(changed), nil
}

// fetchEntity drives the page loop from offset 0 until the server's total
// is covered or the page ceiling trips. Each page is validated, run through
// the entity's processor and reported as progress.
func (s *syncManager) fetchEntity(ctx context.Context, run *models.SyncRun, entity models.SyncEntity, limit int) ([]models.RemoteRecord, error) {
	var incoming []models.RemoteRecord

	offset, page := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fetched, err := s.adapter.FetchPage(ctx, entity, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page at offset %d: %w", entity.Name, offset, err)
		}
		page++

		incoming = append(incoming, s.prepare(ctx, entity, fetched.Items)...)

		s.bus.Publish(models.SyncEvent{
			Type:       models.EventSyncProgress,
			RunID:      run.ID,
			Source:     run.Source,
			At:         s.clock.Now(),
			Entity:     entity.Name,
			Page:       page,
			TotalPages: pageCount(fetched.Total, limit),
		})

		offset += len(fetched.Items)
		if offset >= fetched.Total {
			return incoming, nil
		}
		if len(fetched.Items) == 0 {
			return nil, fmt.Errorf("%w: %s delivered %d of %d after page %d",
				ErrShortPage, entity.Name, offset, fetched.Total, page)
		}
		if page >= s.maxPages {
			s.log.Warn().
				Str("func", "syncManager.fetchEntity").
				Str("entity", entity.Name).
				Int("pages", page).
				Int("fetched", offset).
				Int("total", fetched.Total).
				Msg("page ceiling reached, stopping pagination early")
			return incoming, nil
		}
	}
}

// prepare validates a page's records, dropping invalid ones with a
// per-record warning, then applies the entity's post-fetch processor.
func (s *syncManager) prepare(ctx context.Context, entity models.SyncEntity, items []models.RemoteRecord) []models.RemoteRecord {
	valid := make([]models.RemoteRecord, 0, len(items))
	for _, rec := range items {
		if err := s.validator.Validate(ctx, rec); err != nil {
			s.log.Warn().
				Str("func", "syncManager.prepare").
				Str("entity", entity.Name).
				Str("record_id", rec.ID).
				Err(err).
				Msg("record failed validation, dropped")
			continue
		}
		valid = append(valid, rec)
	}

	if entity.Processor != nil {
		valid = entity.Processor(valid)
	}
	return valid
}

// finishCompleted persists the throttle markers best-effort and publishes
// the finished event.
func (s *syncManager) finishCompleted(ctx context.Context, run *models.SyncRun) models.SyncResult {
	run.Success = true
	next := s.recordSuccess(ctx, run.CompletedAt)

	s.bus.Publish(models.SyncEvent{
		Type:         models.EventSyncFinished,
		RunID:        run.ID,
		Source:       run.Source,
		At:           run.CompletedAt,
		RecordCounts: run.RecordCounts,
		Took:         run.Duration(),
	})

	s.log.Info().
		Str("func", "syncManager.run").
		Str("run_id", run.ID).
		Str("source", string(run.Source)).
		Dur("took", run.Duration()).
		Interface("record_counts", run.RecordCounts).
		Msg("sync finished")

	return models.SyncResult{
		Outcome:           models.OutcomeCompleted,
		Run:               run,
		NextAllowedSyncAt: next,
	}
}

// finishFailed maps the error onto the failure taxonomy, signals the auth
// collaborator on a credential rejection and publishes the failed event.
// The failed entity's transaction has already rolled back by the time the
// error reaches here.
func (s *syncManager) finishFailed(ctx context.Context, run *models.SyncRun, cause error) models.SyncResult {
	reason := mapFailureReason(cause)
	run.Success = false
	run.Reason = reason
	run.Error = cause.Error()

	if reason == models.FailureAuthExpired {
		s.reauth.NotifyReauthRequired(ctx, cause)
	}

	s.bus.Publish(models.SyncEvent{
		Type:   models.EventSyncFailed,
		RunID:  run.ID,
		Source: run.Source,
		At:     run.CompletedAt,
		Reason: reason,
		Error:  run.Error,
	})

	s.log.Error().
		Str("func", "syncManager.run").
		Str("run_id", run.ID).
		Str("source", string(run.Source)).
		Str("reason", string(reason)).
		Dur("took", run.Duration()).
		Err(cause).
		Msg("sync failed")

	return models.SyncResult{
		Outcome: models.OutcomeFailed,
		Run:     run,
		Reason:  reason,
		Error:   run.Error,
	}
}

// recordSuccess advances the throttle window and persists both markers. A
// marker write failure only widens the effective window after a restart,
// never fails the run.
func (s *syncManager) recordSuccess(ctx context.Context, at time.Time) time.Time {
	next := at.Add(s.minGap)

	s.markerMu.Lock()
	s.markersLoaded = true
	s.lastSuccessAt = at
	s.nextAllowedAt = next
	s.markerMu.Unlock()

	if err := s.state.SetMarker(ctx, store.MarkerLastSuccessAt, at); err != nil {
		s.log.Warn().
			Str("func", "syncManager.recordSuccess").
			Err(err).
			Msg("failed to persist last-success marker")
	}
	if err := s.state.SetMarker(ctx, store.MarkerNextAllowedSyncAt, next); err != nil {
		s.log.Warn().
			Str("func", "syncManager.recordSuccess").
			Err(err).
			Msg("failed to persist next-allowed marker")
	}
	return next
}

// localRecords shapes fetched records into cache rows stamped with the sync
// time.
func localRecords(entity string, records []models.RemoteRecord, syncedAt time.Time) []models.LocalRecord {
	out := make([]models.LocalRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, models.LocalRecord{
			Entity:      entity,
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			Status:      rec.Status,
			Remarks:     rec.Remarks,
			FollowUpAt:  rec.FollowUpAt,
			UpdatedAt:   rec.UpdatedAt,
			Payload:     []byte(rec.Payload),
			SyncedAt:    syncedAt,
		})
	}
	return out
}

// pageCount converts a total and page limit into a page count, at least 1.
func pageCount(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	n := (total + limit - 1) / limit
	if n < 1 {
		n = 1
	}
	return n
}
