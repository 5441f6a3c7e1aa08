package votes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/credentials"
	"github.com/dmitrijs2005/connectin/internal/client/metrics"
	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/client/notify"
	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"golang.org/x/sync/errgroup"
)

const source = "votes"

// API is the part of the REST client the store needs. An empty token means
// the request is anonymous.
type API interface {
	GetVoteStatus(ctx context.Context, token string, projectID int64) (*models.VoteStatus, error)
	Vote(ctx context.Context, token string, projectID int64, isUpvote bool) (*models.VoteResult, error)
}

type entry struct {
	models.VoteEntry
	hydratedAt time.Time
	// gen is bumped every time a mutation starts on the entry.
	gen uint64
}

type Store struct {
	api     API
	creds   credentials.Accessor
	sink    notify.Sink
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	voteTimeout time.Duration
	ttl         time.Duration
	concurrency int

	mu        sync.Mutex
	entries   map[int64]*entry
	hydrating map[int64]struct{}
	// epoch changes on Reset; responses from an older epoch are ignored.
	epoch uint64
}

type Option func(*Store)

func WithSink(s notify.Sink) Option {
	return func(st *Store) { st.sink = s }
}

func WithLogger(l logging.Logger) Option {
	return func(st *Store) { st.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(st *Store) { st.metrics = m }
}

// WithVoteTimeout bounds each vote request. Zero disables the bound.
func WithVoteTimeout(d time.Duration) Option {
	return func(st *Store) { st.voteTimeout = d }
}

// WithHydrationTTL sets how long a hydrated entry is considered fresh. Zero
// means hydrated entries never go stale.
func WithHydrationTTL(d time.Duration) Option {
	return func(st *Store) { st.ttl = d }
}

func WithHydrationConcurrency(n int) Option {
	return func(st *Store) { st.concurrency = n }
}

func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

func NewStore(api API, creds credentials.Accessor, opts ...Option) *Store {
	s := &Store{
		api:         api,
		creds:       creds,
		sink:        notify.Discard,
		log:         logging.Discard(),
		now:         time.Now,
		concurrency: 4,
		entries:     make(map[int64]*entry),
		hydrating:   make(map[int64]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// GetVoteStatus returns the current entry for projectID, or the zero entry
// when the project has not been hydrated or voted on.
//
// VoteCount is never negative: a server score below zero reads as 0, and a
// vote on such a project may leave the visible count unchanged. The raw score
// is kept so toggling back restores it exactly.
func (s *Store) GetVoteStatus(projectID int64) models.VoteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[projectID]; ok {
		return visible(e.VoteEntry)
	}
	return models.VoteEntry{}
}

// Snapshot returns every known entry ordered by project id.
func (s *Store) Snapshot() []models.VoteSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.VoteSnapshot, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, models.VoteSnapshot{ProjectID: id, Entry: visible(e.VoteEntry), HydratedAt: e.hydratedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}

// Reset drops all entries. Requests still in flight complete without
// touching the new state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[int64]*entry)
	s.hydrating = make(map[int64]struct{})
	s.epoch++
}

type hydrationTarget struct {
	id  int64
	gen uint64
}

func (s *Store) fresh(e *entry) bool {
	if e.hydratedAt.IsZero() {
		return false
	}
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(e.hydratedAt) < s.ttl
}

// InitializeVoteState fetches the server state of every id that is missing
// or stale. Ids that are pending, fresh, or already being hydrated by
// another call are skipped. Failures are reported per id and do not stop
// the other fetches.
func (s *Store) InitializeVoteState(ctx context.Context, projectIDs []int64) error {
	var token string
	if tok, ok := s.creds.CurrentToken(ctx); ok {
		token = string(tok)
	}

	s.mu.Lock()
	epoch := s.epoch
	targets := make([]hydrationTarget, 0, len(projectIDs))
	for _, id := range projectIDs {
		if _, busy := s.hydrating[id]; busy {
			s.metrics.Hydration(metrics.HydrationSkipped)
			continue
		}
		var gen uint64
		if e, ok := s.entries[id]; ok {
			if e.Pending || s.fresh(e) {
				s.metrics.Hydration(metrics.HydrationSkipped)
				continue
			}
			gen = e.gen
		}
		s.hydrating[id] = struct{}{}
		targets = append(targets, hydrationTarget{id: id, gen: gen})
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		return nil
	}

	var (
		errMu sync.Mutex
		errs  []error
		g     errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, t := range targets {
		g.Go(func() error {
			status, err := s.api.GetVoteStatus(ctx, token, t.id)
			s.applyHydration(ctx, epoch, t, status, err)
			if err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("project %d: %w", t.id, err))
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (s *Store) applyHydration(ctx context.Context, epoch uint64, t hydrationTarget, status *models.VoteStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.metrics.Hydration(metrics.HydrationDiscarded)
		return
	}
	delete(s.hydrating, t.id)

	if err != nil {
		s.metrics.Hydration(metrics.HydrationFailed)
		s.log.Debug(ctx, "hydration failed", "project_id", t.id, "error", err)
		return
	}

	e, ok := s.entries[t.id]
	if ok && (e.Pending || e.gen != t.gen) {
		s.metrics.Hydration(metrics.HydrationDiscarded)
		s.log.Debug(ctx, "hydration response discarded", "project_id", t.id, "pending", e.Pending)
		return
	}
	if !ok {
		e = &entry{}
		s.entries[t.id] = e
	}

	e.HasVoted = status.HasVoted
	e.IsUpvote = status.Upvote()
	if status.VoteCount != nil {
		e.VoteCount = *status.VoteCount
	}
	e.hydratedAt = s.now()
	s.metrics.Hydration(metrics.HydrationApplied)
}

// VoteProject casts, retracts or flips the user's vote on projectID. The
// returned entry is the state after the call resolves: the confirmed one on
// success, the restored pre-call entry on failure.
//
// A project that was never hydrated has no trustworthy baseline, so its
// server state is fetched first while the entry is already marked pending.
// If that fetch fails no vote is sent.
//
// Errors: common.ErrUnauthenticated when no credential is available or the
// server refuses it, common.ErrAlreadyPending while another vote on the same
// project is in flight, otherwise the request error.
func (s *Store) VoteProject(ctx context.Context, projectID int64, isUpvote bool) (models.VoteEntry, error) {
	tok, ok := s.creds.CurrentToken(ctx)
	if !ok {
		s.metrics.Vote(metrics.OutcomeUnauthenticated)
		s.sink.Notify(ctx, notify.Notification{
			Kind:    notify.RedirectToLogin,
			Source:  source,
			Message: "sign in to vote",
			Err:     common.ErrUnauthenticated,
		})
		return s.GetVoteStatus(projectID), common.ErrUnauthenticated
	}

	s.mu.Lock()
	e, existed := s.entries[projectID]
	if !existed {
		e = &entry{}
		s.entries[projectID] = e
	}
	if e.Pending {
		cur := visible(e.VoteEntry)
		s.mu.Unlock()
		s.metrics.Vote(metrics.OutcomeAlreadyPending)
		return cur, common.ErrAlreadyPending
	}

	prev := e.VoteEntry
	unknown := e.hydratedAt.IsZero()
	var kind Kind
	if unknown {
		e.Pending = true
	} else {
		e.VoteEntry, kind = optimistic(e.VoteEntry, isUpvote)
	}
	e.gen++
	epoch := s.epoch
	s.mu.Unlock()

	s.metrics.PendingInc()
	defer s.metrics.PendingDec()

	if unknown {
		base, err := s.fetchBaseline(ctx, string(tok), projectID)
		if err != nil {
			return s.rollback(ctx, epoch, projectID, e, existed, prev, err)
		}

		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			s.metrics.Hydration(metrics.HydrationDiscarded)
			return models.VoteEntry{}, fmt.Errorf("vote: %w: session changed", common.ErrUnauthenticated)
		}
		prev = models.VoteEntry{HasVoted: base.HasVoted, IsUpvote: base.Upvote()}
		if base.VoteCount != nil {
			prev.VoteCount = *base.VoteCount
		}
		existed = true
		e.hydratedAt = s.now()
		e.VoteEntry, kind = optimistic(prev, isUpvote)
		s.mu.Unlock()
		s.metrics.Hydration(metrics.HydrationApplied)
	}

	s.log.Debug(ctx, "vote dispatched", "project_id", projectID, "upvote", isUpvote, "transition", kind.String())

	reqCtx, cancel := s.requestContext(ctx)
	res, err := s.api.Vote(reqCtx, string(tok), projectID, isUpvote)
	cancel()
	if err != nil {
		return s.rollback(ctx, epoch, projectID, e, existed, prev, classify(err))
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return models.VoteEntry{}, nil
	}
	e.Pending = false
	if res != nil && res.VoteCount != nil {
		e.VoteCount = *res.VoteCount
		e.hydratedAt = s.now()
	}
	confirmed := visible(e.VoteEntry)
	s.mu.Unlock()

	s.metrics.Vote(metrics.OutcomeSuccess)
	s.sink.Notify(ctx, notify.Notification{Kind: notify.Success, Source: source, Message: successMessage(res, kind)})
	return confirmed, nil
}

// optimistic runs the transition and marks the result pending.
func optimistic(cur models.VoteEntry, isUpvote bool) (models.VoteEntry, Kind) {
	next, kind := Transition(cur, isUpvote)
	next.Pending = true
	return next, kind
}

func (s *Store) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.voteTimeout > 0 {
		return context.WithTimeout(ctx, s.voteTimeout)
	}
	return context.WithCancel(ctx)
}

// fetchBaseline reads the server state of a project the store knows nothing
// about.
func (s *Store) fetchBaseline(ctx context.Context, token string, projectID int64) (*models.VoteStatus, error) {
	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()

	status, err := s.api.GetVoteStatus(reqCtx, token, projectID)
	if err != nil {
		s.metrics.Hydration(metrics.HydrationFailed)
		return nil, classify(err)
	}
	return status, nil
}

// rollback restores the entry as it was before the vote was sent. An entry
// created for the vote is removed again unless its baseline was fetched.
func (s *Store) rollback(ctx context.Context, epoch uint64, projectID int64, e *entry, existed bool, prev models.VoteEntry, err error) (models.VoteEntry, error) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return models.VoteEntry{}, err
	}
	if existed {
		e.VoteEntry = prev
	} else {
		delete(s.entries, projectID)
	}
	s.mu.Unlock()

	s.log.Debug(ctx, "vote rolled back", "project_id", projectID, "retryable", common.IsRetryable(err), "error", err)
	s.reportFailure(ctx, err)
	return visible(prev), err
}

func (s *Store) reportFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		s.metrics.Vote(metrics.OutcomeUnauthenticated)
		s.sink.Notify(ctx, notify.Notification{
			Kind:    notify.RedirectToLogin,
			Source:  source,
			Message: "session expired, sign in to vote",
			Err:     err,
		})

	case common.IsRetryable(err):
		s.metrics.Vote(metrics.OutcomeRolledBack)
		s.sink.Notify(ctx, notify.Notification{
			Kind:    notify.RetrySuggested,
			Source:  source,
			Message: "vote was not saved",
			Err:     err,
		})

	default:
		s.metrics.Vote(metrics.OutcomeRolledBack)
		s.sink.Notify(ctx, notify.Notification{
			Kind:    notify.Error,
			Source:  source,
			Message: "vote was not saved",
			Err:     err,
		})
	}
}

// classify makes sure a deadline or cancellation reads as a network failure.
func classify(err error) error {
	if errors.Is(err, common.ErrNetworkFailure) || errors.Is(err, common.ErrRemoteRejected) ||
		errors.Is(err, common.ErrUnauthenticated) || errors.Is(err, common.ErrNotFound) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", common.ErrNetworkFailure, err)
	}
	return fmt.Errorf("%w: %w", common.ErrRemoteRejected, err)
}

func successMessage(res *models.VoteResult, kind Kind) string {
	if res != nil && res.Detail != "" {
		return res.Detail
	}
	switch kind {
	case Retract:
		return "Vote removed"
	case Flip:
		return "Vote changed"
	default:
		return "Vote added"
	}
}
