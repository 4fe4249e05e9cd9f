package realtime

import (
	"sort"
	"sync"
)

// Member is anything that can sit in a room.
type Member interface {
	ID() string
}

// RoomRegistry tracks room membership for this process. It is safe for
// concurrent use.
type RoomRegistry struct {
	mu      sync.RWMutex
	rooms   map[string]map[string]Member
	members map[string]map[string]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[string]map[string]Member),
		members: make(map[string]map[string]struct{}),
	}
}

// Join is idempotent.
func (r *RoomRegistry) Join(room string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]Member)
	}
	r.rooms[room][m.ID()] = m

	if r.members[m.ID()] == nil {
		r.members[m.ID()] = make(map[string]struct{})
	}
	r.members[m.ID()][room] = struct{}{}
}

// Leave reports whether m was in room.
func (r *RoomRegistry) Leave(room string, m Member) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(room, m.ID())
}

// LeaveAll removes m from every room it joined.
func (r *RoomRegistry) LeaveAll(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.members[m.ID()] {
		r.leaveLocked(room, m.ID())
	}
	delete(r.members, m.ID())
}

func (r *RoomRegistry) leaveLocked(room, id string) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[id]; !ok {
		return false
	}
	delete(members, id)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if joined := r.members[id]; joined != nil {
		delete(joined, room)
		if len(joined) == 0 {
			delete(r.members, id)
		}
	}
	return true
}

// Members returns a snapshot of the room.
func (r *RoomRegistry) Members(room string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Member, 0, len(r.rooms[room]))
	for _, m := range r.rooms[room] {
		out = append(out, m)
	}
	return out
}

func (r *RoomRegistry) RoomsOf(m Member) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.members[m.ID()]))
	for room := range r.members[m.ID()] {
		out = append(out, room)
	}
	sort.Strings(out)
	return out
}

func (r *RoomRegistry) Size(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}
