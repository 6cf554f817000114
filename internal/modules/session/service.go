// README: Session manager owns session lifetime: create, run turns one at a time per id, persist on completion.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"farebot/internal/modules/dialogue"
	"farebot/internal/types"
)

type Manager struct {
	store  Store
	sink   Sink
	engine *dialogue.Engine
	locks  *keyedMutex
	log    *zap.Logger
	now    func() time.Time
}

func NewManager(store Store, sink Sink, engine *dialogue.Engine, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:  store,
		sink:   sink,
		engine: engine,
		locks:  newKeyedMutex(),
		log:    log,
		now:    time.Now,
	}
}

func (m *Manager) Get(ctx context.Context, id types.ID) (dialogue.Session, error) {
	return m.store.Get(ctx, id)
}

// GetOrCreate returns the session for id, or a new one with a fresh id and the greeting
// when id is empty or unknown. The bool reports whether the session was created.
func (m *Manager) GetOrCreate(ctx context.Context, id types.ID) (dialogue.Session, bool, error) {
	if id != "" {
		unlock := m.locks.Lock(string(id))
		defer unlock()
	}
	return m.getOrCreate(ctx, id)
}

func (m *Manager) getOrCreate(ctx context.Context, id types.ID) (dialogue.Session, bool, error) {
	if id != "" {
		s, err := m.store.Get(ctx, id)
		if err == nil {
			return s, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return dialogue.Session{}, false, fmt.Errorf("get session: %w", err)
		}
	}

	now := m.now()
	s := dialogue.NewSession(types.NewID(), now)
	s.Append(dialogue.RoleSystem, dialogue.Greeting, now)
	s.LastPrompt = dialogue.PromptGreeting
	if err := m.store.Create(ctx, s); err != nil {
		return dialogue.Session{}, false, fmt.Errorf("create session: %w", err)
	}
	m.log.Info("session created", zap.String("session_id", s.ID.String()))
	return s, true, nil
}

func (m *Manager) AppendUserTurn(ctx context.Context, id types.ID, text string) (dialogue.Session, error) {
	return m.appendTurn(ctx, id, dialogue.RoleUser, text)
}

func (m *Manager) AppendSystemTurn(ctx context.Context, id types.ID, text string) (dialogue.Session, error) {
	return m.appendTurn(ctx, id, dialogue.RoleSystem, text)
}

func (m *Manager) appendTurn(ctx context.Context, id types.ID, role dialogue.Role, text string) (dialogue.Session, error) {
	unlock := m.locks.Lock(string(id))
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return dialogue.Session{}, err
	}
	s.Append(role, text, m.now())
	if err := m.store.Update(ctx, s); err != nil {
		return dialogue.Session{}, err
	}
	s.Version++
	return s, nil
}

// maxTurnAttempts bounds how often a turn is replayed after losing a write race.
const maxTurnAttempts = 3

// Turn runs one user utterance through the dialogue engine. Turns on the same id never overlap:
// within a process they queue on a per-id lock, and a turn that loses a write race against
// another instance is replayed on the fresh session.
// Extraction or generation failures are not returned: the reply is an apology and the stored
// session is left as it was.
func (m *Manager) Turn(ctx context.Context, id types.ID, utterance string) (Result, error) {
	if id != "" {
		unlock := m.locks.Lock(string(id))
		defer unlock()
	}

	for attempt := 1; ; attempt++ {
		res, err := m.turn(ctx, id, utterance)
		if !errors.Is(err, ErrConflict) || attempt == maxTurnAttempts {
			return res, err
		}
		m.log.Info("session changed during turn; replaying",
			zap.String("session_id", res.SessionID.String()), zap.Int("attempt", attempt))
		id = res.SessionID
	}
}

func (m *Manager) turn(ctx context.Context, id types.ID, utterance string) (Result, error) {
	s, created, err := m.getOrCreate(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(utterance) == "" {
		return Result{SessionID: s.ID, Reply: lastSystemTurn(s), Session: s}, nil
	}
	if created && id != "" {
		m.log.Info("unknown session id replaced", zap.String("requested", id.String()), zap.String("session_id", s.ID.String()))
	}

	reply, next, err := m.engine.Turn(ctx, s, utterance)
	if errors.Is(err, dialogue.ErrUpstream) {
		m.log.Warn("dialogue turn failed", zap.String("session_id", s.ID.String()), zap.Error(err))
		return Result{SessionID: s.ID, Reply: dialogue.Apology, Session: s}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if next.Complete {
		if err := m.CompleteAndPersist(ctx, next); err != nil {
			return Result{}, err
		}
		return Result{SessionID: next.ID, Reply: reply.Text, Complete: true, Session: next}, nil
	}
	if err := m.store.Update(ctx, next); err != nil {
		return Result{SessionID: next.ID}, fmt.Errorf("update session: %w", err)
	}
	next.Version++
	m.log.Debug("turn committed", zap.String("session_id", next.ID.String()), zap.String("phase", string(next.Phase())))
	return Result{SessionID: next.ID, Reply: reply.Text, Session: next}, nil
}

// CompleteAndPersist hands the booking to the sink and then drops the session.
// If the sink fails the session stays in the store.
func (m *Manager) CompleteAndPersist(ctx context.Context, s dialogue.Session) error {
	if err := m.sink.Save(ctx, BookingOf(s, m.now())); err != nil {
		return fmt.Errorf("save booking: %w", err)
	}
	if err := m.store.Remove(ctx, s.ID); err != nil {
		m.log.Warn("remove completed session", zap.String("session_id", s.ID.String()), zap.Error(err))
	}
	m.log.Info("booking saved", zap.String("session_id", s.ID.String()))
	return nil
}

func lastSystemTurn(s dialogue.Session) string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == dialogue.RoleSystem {
			return s.Transcript[i].Content
		}
	}
	return dialogue.Greeting
}
