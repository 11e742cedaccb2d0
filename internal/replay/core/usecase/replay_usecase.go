package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/observability"
	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/replay/core/ports"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidView  = errors.New("session_id and viewer_id are required")
	ErrViewNotFound = ports.ErrViewNotFound
)

const defaultBatchConcurrency = 4

type StartViewInput struct {
	SessionID   string
	ViewerID    string
	ViewerName  string
	ViewerColor string
}

type RecordInteractionInput struct {
	Type         domain.InteractionType
	PlaybackTime int64 // ms
	Data         map[string]any
}

type AnalyticsQuery struct {
	SessionID       string
	SessionDuration int64 // ms
}

// ReplayUseCase persists live views through the tracker transitions and
// computes session analytics from stored views.
type ReplayUseCase struct {
	repo    ports.ReplayViewRepositoryPort
	tracker *Tracker
	locks   *keyedMutex

	// BatchConcurrency bounds concurrent sessions in GetAnalyticsBatch.
	BatchConcurrency int
}

func NewReplayUseCase(repo ports.ReplayViewRepositoryPort, tracker *Tracker) *ReplayUseCase {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &ReplayUseCase{
		repo:             repo,
		tracker:          tracker,
		locks:            newKeyedMutex(),
		BatchConcurrency: defaultBatchConcurrency,
	}
}

func (uc *ReplayUseCase) StartView(ctx context.Context, in StartViewInput) (domain.ReplayView, error) {
	if in.SessionID == "" || in.ViewerID == "" {
		return domain.ReplayView{}, ErrInvalidView
	}

	v := uc.tracker.StartView(in.SessionID, in.ViewerID, in.ViewerName, in.ViewerColor)
	if err := uc.repo.SaveView(ctx, v); err != nil {
		return domain.ReplayView{}, fmt.Errorf("save view: %w", err)
	}

	observability.ReplayTransitions.WithLabelValues("start").Inc()
	logging.Debug().
		Str("view_id", v.ID).
		Str("session_id", v.SessionID).
		Str("viewer_id", v.ViewerID).
		Msg("replay view started")

	return v, nil
}

func (uc *ReplayUseCase) RecordInteraction(ctx context.Context, viewID string, in RecordInteractionInput) (domain.ReplayView, error) {
	return uc.update(ctx, viewID, "interaction", func(v domain.ReplayView) (domain.ReplayView, error) {
		return uc.tracker.RecordInteraction(v, in.Type, in.PlaybackTime, in.Data)
	})
}

func (uc *ReplayUseCase) MarkWatched(ctx context.Context, viewID string, playbackTime, sessionDuration int64) (domain.ReplayView, error) {
	return uc.update(ctx, viewID, "watched", func(v domain.ReplayView) (domain.ReplayView, error) {
		return uc.tracker.MarkWatched(v, playbackTime, sessionDuration)
	})
}

func (uc *ReplayUseCase) FinalizeView(ctx context.Context, viewID string) (domain.ReplayView, error) {
	return uc.update(ctx, viewID, "finalize", uc.tracker.Finalize)
}

// update loads, transitions and stores one view while holding that view's
// lock, so concurrent callers never interleave on the same view.
func (uc *ReplayUseCase) update(ctx context.Context, viewID, transition string, fn func(domain.ReplayView) (domain.ReplayView, error)) (domain.ReplayView, error) {
	unlock := uc.locks.Lock(viewID)
	defer unlock()

	v, err := uc.repo.GetView(ctx, viewID)
	if err != nil {
		if errors.Is(err, ports.ErrViewNotFound) {
			return domain.ReplayView{}, err
		}
		return domain.ReplayView{}, fmt.Errorf("get view: %w", err)
	}

	next, err := fn(v)
	if err != nil {
		return domain.ReplayView{}, err
	}

	if err := uc.repo.SaveView(ctx, next); err != nil {
		return domain.ReplayView{}, fmt.Errorf("save view: %w", err)
	}

	observability.ReplayTransitions.WithLabelValues(transition).Inc()
	return next, nil
}

func (uc *ReplayUseCase) GetAnalytics(ctx context.Context, q AnalyticsQuery) (*domain.ReplayAnalytics, error) {
	if q.SessionDuration <= 0 {
		return nil, ErrInvalidSessionDuration
	}

	views, err := uc.repo.ListViewsBySession(ctx, q.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}

	start := time.Now()
	res, err := CalculateReplayAnalytics(q.SessionID, q.SessionDuration, views)
	observability.ObserveComputation(observability.EngineReplay, start, err)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("session_id", q.SessionID).
		Int("views", res.TotalViews).
		Int("unique_viewers", res.UniqueViewers).
		Dur("took", time.Since(start)).
		Msg("replay analytics computed")

	return res, nil
}

// GetAnalyticsBatch computes analytics for several sessions concurrently.
// Results keep the order of qs; the first failure cancels the rest.
func (uc *ReplayUseCase) GetAnalyticsBatch(ctx context.Context, qs []AnalyticsQuery) ([]*domain.ReplayAnalytics, error) {
	results := make([]*domain.ReplayAnalytics, len(qs))

	g, gctx := errgroup.WithContext(ctx)
	if uc.BatchConcurrency > 0 {
		g.SetLimit(uc.BatchConcurrency)
	}

	for i, q := range qs {
		i, q := i, q
		g.Go(func() error {
			res, err := uc.GetAnalytics(gctx, q)
			if err != nil {
				return fmt.Errorf("session %s: %w", q.SessionID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
