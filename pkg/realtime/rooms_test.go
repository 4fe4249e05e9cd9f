package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type member string

func (m member) ID() string { return string(m) }

func TestRoomRegistry_JoinLeave(t *testing.T) {
	r := NewRoomRegistry()
	a, b := member("a"), member("b")

	r.Join("admin-room", a)
	r.Join("admin-room", a)
	r.Join("admin-room", b)
	r.Join("podcast-1", a)

	assert.Equal(t, 2, r.Size("admin-room"))
	assert.Equal(t, []string{"admin-room", "podcast-1"}, r.RoomsOf(a))

	assert.True(t, r.Leave("admin-room", a))
	assert.False(t, r.Leave("admin-room", a))
	assert.Equal(t, 1, r.Size("admin-room"))

	r.LeaveAll(a)
	assert.Zero(t, r.Size("podcast-1"))
	assert.Empty(t, r.RoomsOf(a))
	assert.Len(t, r.Members("admin-room"), 1)
}
