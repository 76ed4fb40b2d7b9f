package conversations

import (
	"sync"

	"github.com/jinzhu/copier"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Store maps session keys to transcripts. It is the only shared mutable state
// in the pipeline and is safe for concurrent use from independent requests.
//
// Transcripts grow without bound; eviction is left to deployments that need it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// Session holds one transcript together with the lock used to serialize whole
// chat exchanges on the same session key.
type Session struct {
	exchangeMu sync.Mutex

	mu    sync.Mutex
	turns []Turn
}

// GetOrCreate returns the session for the given key, creating an empty one if
// needed. Concurrent first-access for the same key yields a single session.
func (s *Store) GetOrCreate(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &Session{}
		s.sessions[sessionID] = session
	}
	return session
}

// Append adds a turn to the session's transcript, creating the session if it
// does not exist yet.
func (s *Store) Append(sessionID string, turn Turn) {
	s.GetOrCreate(sessionID).Append(turn)
}

// Read returns a snapshot of the session's transcript, oldest turn first.
// Unknown sessions yield an empty, non-nil slice. The snapshot is detached
// from the stored transcript and safe for the caller to hold onto.
func (s *Store) Read(sessionID string) []Turn {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return []Turn{}
	}
	return session.Snapshot()
}

// Clear removes the session entirely. Clearing an absent session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Lock serializes chat exchanges for this session. Holding it across the
// reply stage is what keeps two concurrent chats on one session key from
// interleaving their context reads.
func (s *Session) Lock()   { s.exchangeMu.Lock() }
func (s *Session) Unlock() { s.exchangeMu.Unlock() }

func (s *Session) Append(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Snapshot returns a detached copy of the transcript, oldest turn first.
func (s *Session) Snapshot() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Turn, 0, len(s.turns))
	copier.Copy(&snapshot, s.turns)
	return snapshot
}
