package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("session not found")

// Session is the in-memory state owned by one player.
type Session struct {
	ID      string
	Game    *domain.Game
	Created time.Time
	Updated time.Time
}

// Snapshot returns the current game snapshot.
func (s *Session) Snapshot() domain.Snapshot { return s.Game.Snapshot() }

func (s *Session) clone() *Session {
	cp := *s
	cp.Game = s.Game.Clone()
	return &cp
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages sessions and their subscribers.
type Service struct {
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   func(Session) []byte
	now      func() time.Time
}

// NewService creates a service with a renderer that broadcasts nothing.
func NewService(logger *slog.Logger) *Service {
	return NewServiceWithRenderer(logger, nil)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(logger *slog.Logger, renderer func(Session) []byte) *Service {
	if renderer == nil {
		renderer = func(Session) []byte { return nil }
	}
	return &Service{
		logger:   logger.With("component", "app"),
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   renderer,
		now:      time.Now,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(Session) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateSession creates and registers a new session with a fresh game.
func (s *Service) CreateSession() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{ID: id.String(), Game: domain.New(), Created: now, Updated: now}
	s.sessions[sess.ID] = sess

	s.logger.Info("session created", "session", sess.ID)

	return sess.clone(), nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.clone(), true
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Play applies a move in the session's current position.
func (s *Service) Play(id string, cell int) (*Session, error) {
	log := s.logger.With("method", "Play", "session", id, "cell", cell)

	return s.apply(id, func(g *domain.Game) error {
		accepted, err := g.Play(cell)
		if err != nil {
			return fmt.Errorf("play: %w", err)
		}
		if !accepted {
			log.Debug("move ignored", "status", g.StatusText())
			return nil
		}
		log.Debug("move accepted", "step", g.Step(), "status", g.StatusText())
		return nil
	})
}

// JumpTo makes an earlier or later history step current.
func (s *Service) JumpTo(id string, step int) (*Session, error) {
	return s.apply(id, func(g *domain.Game) error {
		if err := g.JumpTo(step); err != nil {
			return fmt.Errorf("jump: %w", err)
		}
		s.logger.Debug("jumped", "session", id, "step", step)
		return nil
	})
}

// ToggleOrder flips the move list order.
func (s *Service) ToggleOrder(id string) (*Session, error) {
	return s.apply(id, func(g *domain.Game) error {
		g.ToggleOrder()
		s.logger.Debug("order toggled", "session", id, "ascending", g.Ascending())
		return nil
	})
}

// apply runs op under the lock, updates timestamps, and broadcasts.
func (s *Service) apply(id string, op func(*domain.Game) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := op(sess.Game); err != nil {
		return nil, err
	}
	sess.Updated = s.now()

	cp := sess.clone()
	s.broadcastLocked(id, s.render(*cp))

	return cp, nil
}

// broadcastLocked never blocks: a subscriber with a full buffer is closed and dropped.
func (s *Service) broadcastLocked(id string, payload []byte) {
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(s.subs[id], sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Warn("dropped slow subscribers", "session", id, "count", dropped)
	}
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			sub.close()
			s.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// Sweep removes sessions idle for longer than ttl and closes their subscribers.
func (s *Service) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.Updated.After(cutoff) {
			continue
		}
		for sub := range s.subs[id] {
			sub.close()
		}
		delete(s.subs, id)
		delete(s.sessions, id)
		removed++
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ttl)
		}
	}
}
