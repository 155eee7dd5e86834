package http

import (
	"sync"

	"github.com/google/uuid"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// newConversation is the conversation_id that asks for a fresh log.
const newConversation = "new"

// DefaultMaxSessions bounds how many conversation logs the server keeps.
const DefaultMaxSessions = 1000

type session struct {
	conv     *entities.Conversation
	lastUsed uint64
}

// Sessions holds conversation logs for HTTP clients. The logs are display
// history only; answers never depend on them. When full, the least recently
// used log is evicted to make room for a new one.
type Sessions struct {
	mu    sync.Mutex
	convs map[string]*session
	max   int
	clock uint64
}

// NewSessions creates an empty session table holding at most max logs.
func NewSessions(max int) *Sessions {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Sessions{convs: make(map[string]*session), max: max}
}

// Resolve returns the conversation for id, creating one when id is "new".
func (s *Sessions) Resolve(id string) (*entities.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == newConversation {
		if len(s.convs) >= s.max {
			s.evictOldest()
		}
		conv := &entities.Conversation{ID: uuid.New().String()}
		s.convs[conv.ID] = &session{conv: conv, lastUsed: s.tick()}
		return conv, true
	}
	sess, ok := s.convs[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = s.tick()
	return sess.conv, true
}

// Record appends a question and its answer to conversation id.
func (s *Sessions) Record(id, query string, res entities.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.convs[id]; ok {
		sess.conv.AddUser(query)
		sess.conv.AddAnswer(res)
		sess.lastUsed = s.tick()
	}
}

// Get returns a copy of conversation id.
func (s *Sessions) Get(id string) (entities.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.convs[id]
	if !ok {
		return entities.Conversation{}, false
	}
	return entities.Conversation{
		ID:    sess.conv.ID,
		Turns: append([]entities.Turn{}, sess.conv.Turns...),
	}, true
}

// Remove drops conversation id.
func (s *Sessions) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.convs[id]
	delete(s.convs, id)
	return ok
}

// Len reports how many conversations are held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

func (s *Sessions) tick() uint64 {
	s.clock++
	return s.clock
}

func (s *Sessions) evictOldest() {
	var oldest string
	var min uint64
	for id, sess := range s.convs {
		if oldest == "" || sess.lastUsed < min {
			oldest, min = id, sess.lastUsed
		}
	}
	delete(s.convs, oldest)
}
