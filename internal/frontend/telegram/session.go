package telegram

import (
	"sync"

	"github.com/vadimtrunov/marquee/internal/browse"
)

// chatSession holds the popular list pager of one chat. The mutex guards
// pager transitions only; fetches run without it so a second "More" press
// sees the request in flight and is ignored.
type chatSession struct {
	mu    sync.Mutex
	pager *browse.Pager
}

// sessionManager manages per-chat list sessions and access control.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*chatSession
	allowed  map[int64]bool // nil or empty = allow all
	opts     browse.Options
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64, opts browse.Options) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		sessions: make(map[int64]*chatSession),
		allowed:  allowed,
		opts:     opts,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// getOrCreate returns the chat's session, creating an empty one if needed.
func (sm *sessionManager) getOrCreate(chatID int64) *chatSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[chatID]; ok {
		return s
	}
	s := &chatSession{pager: browse.New(sm.opts)}
	sm.sessions[chatID] = s
	return s
}

// reset drops a chat's session so the next list starts from scratch.
func (sm *sessionManager) reset(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[chatID]; ok {
		s.mu.Lock()
		s.pager.Cancel()
		s.mu.Unlock()
	}
	delete(sm.sessions, chatID)
}
