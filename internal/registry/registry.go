package registry

import (
	"sort"
	"sync"
)

// one live connection's identity and room
type Session struct {
	ConnectionID string
	Username     string
	RoomID       string

	joinedSeq uint64
}

type Member struct {
	Username string
}

// tracks which connection is in which room under which name. the zero
// value is not usable; call New.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	seq      uint64
	onChange func(roomID string)
}

func New() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// registers the callback run (outside the lock) once per room whose membership changed
func (r *Registry) OnChange(fn func(roomID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onChange = fn
}

// binds connID to roomID under username. a connection already bound
// elsewhere leaves its old room first.
func (r *Registry) Join(connID, username, roomID string) {
	r.mu.Lock()

	var changed []string

	if prev, ok := r.sessions[connID]; ok && prev.RoomID != roomID {
		changed = append(changed, prev.RoomID)
	}

	r.seq++
	r.sessions[connID] = &Session{
		ConnectionID: connID,
		Username:     username,
		RoomID:       roomID,
		joinedSeq:    r.seq,
	}

	changed = append(changed, roomID)
	notify := r.onChange

	r.mu.Unlock()

	r.notify(notify, changed)
}

// removes the connection's session. reports the room it was in; unknown
// connections are a no-op.
func (r *Registry) Leave(connID string) (string, bool) {
	r.mu.Lock()

	s, ok := r.sessions[connID]
	if !ok {
		r.mu.Unlock()
		return "", false
	}

	delete(r.sessions, connID)
	notify := r.onChange

	r.mu.Unlock()

	r.notify(notify, []string{s.RoomID})

	return s.RoomID, true
}

func (r *Registry) notify(fn func(string), rooms []string) {
	if fn == nil {
		return
	}

	for _, roomID := range rooms {
		fn(roomID)
	}
}

// returns a copy of the connection's session
func (r *Registry) Session(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}

	return *s, true
}

func (r *Registry) RoomOf(connID string) (string, bool) {
	s, ok := r.Session(connID)
	return s.RoomID, ok
}

// members of a room in join order; duplicate usernames are kept, one per connection
func (r *Registry) MembersOf(roomID string) []Member {
	r.mu.RLock()

	var inRoom []*Session

	for _, s := range r.sessions {
		if s.RoomID == roomID {
			inRoom = append(inRoom, s)
		}
	}

	r.mu.RUnlock()

	sort.Slice(inRoom, func(i, j int) bool {
		return inRoom[i].joinedSeq < inRoom[j].joinedSeq
	})

	members := make([]Member, 0, len(inRoom))
	for _, s := range inRoom {
		members = append(members, Member{Username: s.Username})
	}

	return members
}

// returns member counts per occupied room
func (r *Registry) ActiveRooms() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make(map[string]int)
	for _, s := range r.sessions {
		rooms[s.RoomID]++
	}

	return rooms
}

// returns the number of bound connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
