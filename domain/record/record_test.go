package record

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampSetsTypeAndTimestamps(t *testing.T) {
	g := NewGroup("Trivia Night", "", true)

	assert.Equal(t, TypeGroup, g.ItemType)
	assert.False(t, g.CreatedAt.IsZero())
	assert.Equal(t, g.CreatedAt, g.UpdatedAt)
	_, err := uuid.Parse(g.GroupID)
	require.NoError(t, err)
}

func TestTouchAdvancesUpdatedAtOnly(t *testing.T) {
	h := NewHangout("Picnic", 1757000000, nil)
	created := h.CreatedAt

	time.Sleep(time.Millisecond)
	h.Touch()

	assert.Equal(t, created, h.CreatedAt)
	assert.True(t, h.UpdatedAt.After(created))
}

func TestNewGroupMembershipCopiesDenormalizedFields(t *testing.T) {
	g := NewGroup("Climbers", "wall.png", false)
	m := NewGroupMembership(g, uuid.New().String(), RoleMember)

	assert.Equal(t, g.GroupID, m.GroupID)
	assert.Equal(t, "Climbers", m.GroupName)
	assert.Equal(t, "wall.png", m.GroupBackgroundImagePath)
	assert.NotZero(t, m.StartTimestamp)
}

func TestNewHangoutPointerMirrorsSource(t *testing.T) {
	groupID := uuid.New().String()
	h := NewHangout("Ski Trip", 1757000000, []string{groupID})
	p := NewHangoutPointer(h, groupID)

	assert.Equal(t, h.HangoutID, p.HangoutID)
	assert.Equal(t, "Ski Trip", p.Title)
	assert.Equal(t, int64(1757000000), p.StartTimestamp)
	assert.Zero(t, p.ParticipantCount)
}
