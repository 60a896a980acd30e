package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"photodup/internal/config"
	"photodup/internal/hashing"
	"photodup/internal/library"
	"photodup/internal/logging"
	"photodup/internal/services"
)

// State is the scan lifecycle position. Owned and mutated only by Service.
type State int

const (
	StateIdle State = iota
	StateAuthorizing
	StateScanning
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StateAuthorizing:
		return "authorizing"
	case StateScanning:
		return "scanning"
	case StateCancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

// Group is one set of byte-identical assets. Members appear in
// fetch-completion order and there are always at least two of them.
type Group struct {
	Digest  hashing.Digest
	Members []library.AssetRef
}

// ID returns the group's stable identifier, the digest hex. It names the
// same content across scans.
func (g Group) ID() string {
	return g.Digest.String()
}

// Result is one completed scan. It fully replaces any previous result.
type Result struct {
	ScanID        string
	Tier          library.Tier
	Groups        []Group
	AssetCount    int
	FailedFetches int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Service runs duplicate scans over a library and owns the published
// result. Construct it once and share it; all methods are safe for
// concurrent use.
type Service struct {
	cfg    *config.Config
	lib    library.Library
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	latest *Result
}

// New constructs a scan service. A nil logger disables logging.
func New(cfg *config.Config, lib library.Library, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		lib:    lib,
		logger: logging.WithComponent(logger, "scanner"),
	}
}

// State reports the current scan state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Latest returns the most recently published result, or nil before the
// first successful scan. The returned value is a snapshot; mutating it
// does not affect the service.
func (s *Service) Latest() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil
	}
	cp := *s.latest
	cp.Groups = append([]Group(nil), s.latest.Groups...)
	return &cp
}

// Cancel requests cooperative cancellation of a running scan. New fetches
// stop dispatching; in-flight fetches drain and their results are
// discarded.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning || s.cancel == nil {
		return
	}
	s.state = StateCancelling
	s.cancel()
}

// FindDuplicates runs one full scan: request access, enumerate assets,
// fetch and hash with bounded concurrency, group by digest, publish. If a
// scan is already running the call is rejected with ErrScanActive and
// nothing starts.
func (s *Service) FindDuplicates(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, services.Wrap(services.ErrScanActive, "scanner", "find duplicates", "a scan is already running", nil)
	}
	s.state = StateAuthorizing
	s.mu.Unlock()

	level, err := s.lib.RequestAccess(ctx)
	if err != nil {
		s.reset()
		return nil, services.Wrap(services.ErrAuthorization, "scanner", "request access", "", err)
	}
	if !level.Authorized() {
		s.reset()
		return nil, services.Wrap(services.ErrAuthorization, "scanner", "request access", fmt.Sprintf("library reported access level %q", level), nil)
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.state = StateScanning
	s.cancel = cancel
	s.mu.Unlock()

	tier := library.Tier(s.cfg.Scan.Tier)
	limit := s.cfg.Scan.Concurrency
	started := time.Now().UTC()

	refs, err := s.lib.ListAssets(scanCtx)
	if err != nil {
		s.reset()
		return nil, fmt.Errorf("list assets: %w", err)
	}

	s.logger.Info("scan started",
		logging.Int("assets", len(refs)),
		logging.String("tier", string(tier)),
		logging.Int("concurrency", limit))

	completions := make(chan fetchResult)
	go s.scheduleFetches(scanCtx, refs, tier, limit, completions)
	groups, failed := collectGroups(completions, s.logger)

	result := &Result{
		ScanID:        uuid.NewString(),
		Tier:          tier,
		Groups:        groups,
		AssetCount:    len(refs),
		FailedFetches: failed,
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	if s.state == StateCancelling {
		// The scan was cancelled while fetches drained; discard the
		// partial result rather than publishing it.
		s.state = StateIdle
		s.cancel = nil
		s.mu.Unlock()
		return nil, context.Canceled
	}
	s.latest = result
	s.state = StateIdle
	s.cancel = nil
	s.mu.Unlock()

	s.logger.Info("scan complete",
		logging.String(logging.FieldScanID, result.ScanID),
		logging.Int("groups", len(result.Groups)),
		logging.Int("failed_fetches", result.FailedFetches),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	return result, nil
}

func (s *Service) reset() {
	s.mu.Lock()
	s.state = StateIdle
	s.cancel = nil
	s.mu.Unlock()
}
