// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memo saves question memos after the operator stops typing.
// Each edit restarts a per-question timer, so a burst of edits turns into
// a single write of the latest text.
package memo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"quizdeck/internal/models"
)

// DefaultDelay is how long a memo must stay unchanged before it is saved.
const DefaultDelay = 1500 * time.Millisecond

// saveTimeout bounds a single memo write.
const saveTimeout = 10 * time.Second

// ErrClosed is returned when scheduling on a closed Saver.
var ErrClosed = errors.New("memo saver closed")

// Store is the question storage the saver writes through.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	UpdateMemo(ctx context.Context, id, memo string) error
}

// Outcome is what happened to a scheduled save.
type Outcome int

const (
	Saved Outcome = iota
	Unchanged
	Failed
)

// Result reports a finished save.
type Result struct {
	SessionID  string
	QuestionID string
	Outcome    Outcome
	Err        error
}

// Saver debounces memo writes per question.
type Saver struct {
	store  Store
	delay  time.Duration
	notify func(Result)

	mu      sync.Mutex
	pending map[string]*pendingSave
	closed  bool
	wg      sync.WaitGroup
}

type pendingSave struct {
	sessionID  string
	questionID string
	memo       string
	timer      *time.Timer
}

// New creates a Saver. notify, if set, is called after every save attempt
// from the goroutine that performed it.
func New(store Store, delay time.Duration, notify func(Result)) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{
		store:   store,
		delay:   delay,
		notify:  notify,
		pending: make(map[string]*pendingSave),
	}
}

// Schedule queues memo for questionID, replacing any save still waiting
// for the same question.
func (s *Saver) Schedule(sessionID, questionID, memo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if prev, ok := s.pending[questionID]; ok {
		if prev.timer.Stop() {
			s.wg.Done()
		}
	}

	p := &pendingSave{sessionID: sessionID, questionID: questionID, memo: memo}
	s.wg.Add(1)
	p.timer = time.AfterFunc(s.delay, func() { s.fire(p) })
	s.pending[questionID] = p
	return nil
}

// Pending returns how many saves are waiting for their delay.
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close stops accepting edits, writes every pending memo immediately and
// waits for saves already in flight.
func (s *Saver) Close() {
	s.mu.Lock()
	s.closed = true
	var flush []*pendingSave
	for id, p := range s.pending {
		if p.timer.Stop() {
			flush = append(flush, p)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, p := range flush {
		s.save(p)
		s.wg.Done()
	}
	s.wg.Wait()
}

func (s *Saver) fire(p *pendingSave) {
	defer s.wg.Done()

	s.mu.Lock()
	if s.pending[p.questionID] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, p.questionID)
	s.mu.Unlock()

	s.save(p)
}

func (s *Saver) save(p *pendingSave) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	outcome, err := s.write(ctx, p.questionID, p.memo)
	if err != nil {
		slog.Error("memo save failed", "question", p.questionID, "error", err)
	} else {
		slog.Debug("memo save", "question", p.questionID, "outcome", outcome)
	}

	if s.notify != nil {
		s.notify(Result{SessionID: p.sessionID, QuestionID: p.questionID, Outcome: outcome, Err: err})
	}
}

// write stores the trimmed memo unless it matches what is stored.
func (s *Saver) write(ctx context.Context, questionID, memo string) (Outcome, error) {
	memo = strings.TrimSpace(memo)

	q, err := s.store.FindByID(ctx, questionID)
	if err != nil {
		return Failed, err
	}
	if q == nil {
		return Failed, fmt.Errorf("question %s not found", questionID)
	}
	if q.Memo == memo {
		return Unchanged, nil
	}

	if err := s.store.UpdateMemo(ctx, questionID, memo); err != nil {
		return Failed, err
	}
	return Saved, nil
}
