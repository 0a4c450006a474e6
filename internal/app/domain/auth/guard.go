package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/observability/metrics"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

// State is a step of the per-page-load guard machine.
type State int

const (
	StateInit State = iota
	StateChecking
	StateAuthenticated
	StateRedirecting
	// StateUnavailable is only reached in strict mode, when the identity
	// lookup failed for a reason unrelated to the token.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateRedirecting:
		return "redirecting"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Reason explains a Redirecting or Unavailable result.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoSession
	ReasonSessionInvalid
	ReasonStale
	ReasonUpstream
)

func (r Reason) String() string {
	switch r {
	case ReasonNoSession:
		return "no_session"
	case ReasonSessionInvalid:
		return "session_invalid"
	case ReasonStale:
		return "stale"
	case ReasonUpstream:
		return "upstream"
	default:
		return "none"
	}
}

// Result is the terminal outcome of one Check.
type Result struct {
	State   State
	Reason  Reason
	Profile models.UserProfile
	Session session.Session
	Err     error
}

// GuardOptions tunes failure handling.
type GuardOptions struct {
	// Strict keeps the session and reports StateUnavailable when the lookup
	// failed with a network error or a 5xx. Otherwise every failure clears.
	Strict bool
}

// Guard decides whether a protected view may render.
type Guard struct {
	store   session.Store
	service Service
	opts    GuardOptions
	logger  *zap.Logger
}

func NewGuard(store session.Store, service Service, opts GuardOptions, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{store: store, service: service, opts: opts, logger: logger}
}

// Check runs Init → Checking → Authenticated | Redirecting once. It never
// retries; a fresh page load calls it again.
func (g *Guard) Check(ctx context.Context) Result {
	res := g.check(ctx)
	metrics.Count(ctx, metrics.Get().GuardOutcomesTotal, "state", res.State.String(), "reason", res.Reason.String())
	return res
}

func (g *Guard) check(ctx context.Context) Result {
	// Init → Checking: the store read is synchronous.
	s, ok := g.store.Read()
	if !ok {
		return Result{State: StateRedirecting, Reason: ReasonNoSession}
	}
	gen := g.store.Generation()

	profile, err := g.service.FetchProfile(ctx, s)

	if g.store.Generation() != gen {
		// The store changed underneath the lookup (logout or re-login);
		// whatever came back belongs to a session that no longer exists.
		g.logger.Info("Discarding identity response for a replaced session")
		return Result{State: StateRedirecting, Reason: ReasonStale, Err: err}
	}

	if err != nil {
		var authErr *Error
		if g.opts.Strict && errors.As(err, &authErr) && authErr.Transient() {
			g.logger.Warn("Identity lookup unavailable, keeping session", zap.Error(err))
			return Result{State: StateUnavailable, Reason: ReasonUpstream, Session: s, Err: err}
		}
		g.logger.Info("Identity lookup failed, clearing session",
			zap.String("kind", KindOf(err).String()), zap.Error(err))
		g.store.Clear()
		return Result{State: StateRedirecting, Reason: ReasonSessionInvalid, Err: err}
	}

	return Result{State: StateAuthenticated, Profile: profile, Session: s}
}
