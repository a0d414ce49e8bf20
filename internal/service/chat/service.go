package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option customises a Service.
type Option func(*Service)

// WithResponseDelay sets the pause before an answer is stored.
func WithResponseDelay(d time.Duration) Option {
	return func(s *Service) { s.deps.delay = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.deps.logger = logger
		}
	}
}

// WithStoreOptions applies opts to every workspace store.
func WithStoreOptions(opts ...StoreOption) Option {
	return func(s *Service) { s.storeOpts = append(s.storeOpts, opts...) }
}

// WithIdleTimeout evicts workspaces that were not used for d. Zero keeps
// them for the lifetime of the process.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) { s.idleTimeout = d }
}

// WithMaxWorkspaces caps the registry. Creating a workspace beyond the cap
// evicts the least recently used one. Zero means no cap.
func WithMaxWorkspaces(n int) Option {
	return func(s *Service) { s.maxWorkspaces = n }
}

// WithRegistryClock overrides the time source used for idle tracking.
func WithRegistryClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service keeps one Workspace per client until it goes idle.
type Service struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	storeOpts  []StoreOption
	deps       *dependencies

	idleTimeout   time.Duration
	maxWorkspaces int
	now           func() time.Time
}

// NewService bootstraps the in-memory registry.
func NewService(responder Responder, suggestions Suggestions, opts ...Option) *Service {
	s := &Service{
		workspaces: make(map[string]*Workspace),
		deps: &dependencies{
			responder:   responder,
			suggestions: suggestions,
			logger:      zap.NewNop(),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deps.logger = s.deps.logger.Named("chat")
	return s
}

// Workspace returns the workspace for clientID, creating it on first use.
// An empty clientID always yields a new workspace with a generated id.
func (s *Service) Workspace(clientID string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if ws, ok := s.workspaces[clientID]; ok && clientID != "" {
		ws.lastSeen = now
		return ws
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}

	s.evictExpiredLocked(now)
	if s.maxWorkspaces > 0 && len(s.workspaces) >= s.maxWorkspaces {
		s.evictOldestLocked()
	}

	store := NewStore(s.storeOpts...)
	ws := &Workspace{
		ID:       clientID,
		Store:    store,
		Clear:    NewClearConfirmation(store),
		deps:     s.deps,
		lastSeen: now,
	}
	s.workspaces[clientID] = ws
	s.deps.logger.Debug("workspace created", zap.String("workspace", clientID))
	return ws
}

// Lookup returns an existing workspace without creating one.
func (s *Service) Lookup(clientID string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[clientID]
	if ok {
		ws.lastSeen = s.now()
	}
	return ws, ok
}

// Len returns the number of workspaces.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// Sweep evicts idle workspaces and returns how many were removed.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictExpiredLocked(s.now())
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTimeout <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.deps.logger.Info("evicted idle workspaces", zap.Int("count", n))
			}
		}
	}
}

func (s *Service) evictExpiredLocked(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	evicted := 0
	for id, ws := range s.workspaces {
		if now.Sub(ws.lastSeen) >= s.idleTimeout {
			delete(s.workspaces, id)
			evicted++
		}
	}
	return evicted
}

func (s *Service) evictOldestLocked() {
	var oldest *Workspace
	for _, ws := range s.workspaces {
		if oldest == nil || ws.lastSeen.Before(oldest.lastSeen) {
			oldest = ws
		}
	}
	if oldest != nil {
		delete(s.workspaces, oldest.ID)
		s.deps.logger.Debug("workspace evicted", zap.String("workspace", oldest.ID))
	}
}
