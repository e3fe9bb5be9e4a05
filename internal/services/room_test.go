package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateRoomDefaults(t *testing.T) {
	_, rooms := setupRace(t)

	room, err := rooms.CreateRoom()
	assert.NoError(t, err)
	assert.Equal(t, "waiting", room.Status)

	_, err = uuid.Parse(room.Code)
	assert.NoError(t, err, "room code should be a UUID")

	fetched, err := rooms.GetRoomByCode(room.Code)
	assert.NoError(t, err)
	assert.Equal(t, room.ID, fetched.ID)
}

func TestGetRoomByCodeNotFound(t *testing.T) {
	_, rooms := setupRace(t)

	_, err := rooms.GetRoomByCode("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestWinnerEmptyRoom(t *testing.T) {
	_, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	winner, err := rooms.GetWinner(room.ID)
	assert.NoError(t, err)
	assert.Nil(t, winner)
}

func TestLeaderboardOrdersByRank(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	names := []string{"Alice", "Bob", "Carol"}
	for _, name := range names {
		result, _ := race.Join(room.Code, name)
		_, err := race.MarkAwake(room.ID, result.Participant.ID)
		assert.NoError(t, err)
	}
	// A sleeper must not show up.
	_, _ = race.Join(room.Code, "Dave")

	entries, err := rooms.GetLeaderboard(room.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
		assert.Equal(t, names[i], entry.Nickname)
	}
}

func TestParticipantCounts(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	alice, _ := race.Join(room.Code, "Alice")
	_, _ = race.Join(room.Code, "Bob")

	total, err := rooms.CountParticipants(room.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, total)

	awake, err := rooms.CountAwake(room.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, awake)

	_, _ = race.MarkAwake(room.ID, alice.Participant.ID)

	awake, _ = rooms.CountAwake(room.ID)
	assert.EqualValues(t, 1, awake)
}
