// Package session keeps per-chat conversation context. A single writer
// per chat is assumed, the store itself only guards its index.
package session

import (
	"sync"
	"time"

	"github.com/pancsta/recipai/browse"
	"github.com/pancsta/recipai/draft"
	"github.com/pancsta/recipai/tokens"
)

// MsgRef points at a sent chat message.
type MsgRef struct {
	ChatID int64
	MsgID  int
}

// Session is the mutable context of one chat.
type Session struct {
	ChatID   int64
	UserID   int64
	UserName string

	// Draft is the recipe under construction, nil outside insertion.
	Draft *draft.Recipe
	// Tokens buffers search and ingredient input, nil when idle.
	Tokens *tokens.Accumulator
	// SearchToks are the parsed tokens awaiting confirmation.
	SearchToks []string
	// PendingOp is the operation awaiting a yes/no answer.
	PendingOp string
	// Cursor and Keyboard carry the browsing context, nil outside it.
	Cursor   *browse.Cursor
	Keyboard *browse.Keyboard

	// LastPrompt is the only live interactive prompt of the chat. Its
	// controls get retired before a new one is sent.
	LastPrompt *MsgRef

	LastSeen time.Time
}

// Reset drops the flow context, keeping identity and the live prompt.
func (s *Session) Reset() {
	s.Draft = nil
	s.Tokens = nil
	s.SearchToks = nil
	s.PendingOp = ""
	s.Cursor = nil
	s.Keyboard = nil
}

// ///// ///// /////

// ///// STORE

// ///// ///// /////

// Store indexes sessions by chat id.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[int64]*Session{}}
}

// Get returns the chat's session, creating it on first contact, and
// bumps its idle clock.
func (s *Store) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{ChatID: chatID}
		s.sessions[chatID] = sess
	}
	sess.LastSeen = time.Now()

	return sess
}

// Peek returns the session without creating or touching it.
func (s *Store) Peek(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[chatID]
}

// Clear resets the chat's context, preserving identity fields.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return
	}
	sess.Reset()
}

// Drop forgets the session entirely.
func (s *Store) Drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Idle returns sessions last seen before the deadline. Eviction itself
// stays with the caller, which also stops the chat worker.
func (s *Store) Idle(deadline time.Time) []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Session
	for _, sess := range s.sessions {
		if sess.LastSeen.Before(deadline) {
			out = append(out, sess)
		}
	}
	return out
}
