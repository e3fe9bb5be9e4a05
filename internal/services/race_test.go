package services

import (
	"sync"
	"testing"
	"time"

	"github.com/karaagenomuranaoya/early-rising-race/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection serializes transactions the way the room row
	// lock does on postgres.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Room{}, &models.Participant{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func setupRace(t *testing.T) (*RaceService, *RoomService) {
	t.Helper()
	db := setupTestDB(t)
	tokens := NewTokenService("test-secret")
	return NewRaceService(db, tokens), NewRoomService(db)
}

func TestJoinThenFetchDefaults(t *testing.T) {
	race, rooms := setupRace(t)

	room, err := rooms.CreateRoom()
	assert.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, room.Status)

	result, err := race.Join(room.Code, "Alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	fetched, err := race.GetParticipant(result.Participant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Nickname)
	assert.Nil(t, fetched.WokeUpAt)
	assert.Nil(t, fetched.Rank)
	assert.Nil(t, fetched.Comment)
}

func TestJoinUnknownRoom(t *testing.T) {
	race, _ := setupRace(t)

	_, err := race.Join("no-such-room", "Alice")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinAllowsDuplicateNicknames(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	first, err := race.Join(room.Code, "Alice")
	assert.NoError(t, err)
	second, err := race.Join(room.Code, "Alice")
	assert.NoError(t, err)
	assert.NotEqual(t, first.Participant.ID, second.Participant.ID)
}

func TestMarkAwakeAssignsDenseRanks(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	var ids []uint
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		result, err := race.Join(room.Code, name)
		assert.NoError(t, err)
		ids = append(ids, result.Participant.ID)
	}

	for i, id := range ids {
		p, err := race.MarkAwake(room.ID, id)
		assert.NoError(t, err)
		assert.NotNil(t, p.Rank)
		assert.Equal(t, i+1, *p.Rank)
		assert.NotNil(t, p.WokeUpAt)
	}

	updated, err := rooms.GetRoomByCode(room.Code)
	assert.NoError(t, err)
	assert.Equal(t, models.RoomStatusActive, updated.Status)
}

func TestMarkAwakeIdempotent(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	alice, _ := race.Join(room.Code, "Alice")
	bob, _ := race.Join(room.Code, "Bob")

	first, err := race.MarkAwake(room.ID, alice.Participant.ID)
	assert.NoError(t, err)

	_, err = race.MarkAwake(room.ID, alice.Participant.ID)
	assert.ErrorIs(t, err, ErrAlreadyAwake)

	// No state change and no counter gap: Alice keeps rank 1 and her
	// original wake time, Bob gets rank 2.
	refetched, _ := race.GetParticipant(alice.Participant.ID)
	assert.Equal(t, 1, *refetched.Rank)
	assert.True(t, refetched.WokeUpAt.Equal(*first.WokeUpAt))

	second, err := race.MarkAwake(room.ID, bob.Participant.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, *second.Rank)
}

func TestMarkAwakeUnknownParticipant(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	_, err := race.MarkAwake(room.ID, 9999)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestMarkAwakeWrongRoom(t *testing.T) {
	race, rooms := setupRace(t)
	roomA, _ := rooms.CreateRoom()
	roomB, _ := rooms.CreateRoom()

	alice, _ := race.Join(roomA.Code, "Alice")

	_, err := race.MarkAwake(roomB.ID, alice.Participant.ID)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	refetched, _ := race.GetParticipant(alice.Participant.ID)
	assert.Nil(t, refetched.Rank)
	assert.Nil(t, refetched.WokeUpAt)
}

func TestConcurrentWakeStress(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	const n = 50
	ids := make([]uint, n)
	for i := 0; i < n; i++ {
		result, err := race.Join(room.Code, "sleeper")
		assert.NoError(t, err)
		ids[i] = result.Participant.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := race.MarkAwake(room.ID, id)
			errs <- err
		}(ids[i])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	participants, err := rooms.ListParticipants(room.ID)
	assert.NoError(t, err)
	assert.Len(t, participants, n)

	seen := make(map[int]bool)
	wokeAtByRank := make(map[int]time.Time)
	for _, p := range participants {
		assert.NotNil(t, p.Rank)
		assert.NotNil(t, p.WokeUpAt)
		assert.False(t, seen[*p.Rank], "duplicate rank %d", *p.Rank)
		seen[*p.Rank] = true
		wokeAtByRank[*p.Rank] = *p.WokeUpAt
	}

	// Dense 1..n with no gaps, wake times ordered with ranks.
	for rank := 1; rank <= n; rank++ {
		assert.True(t, seen[rank], "missing rank %d", rank)
	}
	for rank := 2; rank <= n; rank++ {
		assert.False(t, wokeAtByRank[rank].Before(wokeAtByRank[rank-1]),
			"rank %d woke before rank %d", rank, rank-1)
	}
}

func TestSetCommentRequiresAwake(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()
	alice, _ := race.Join(room.Code, "Alice")

	_, err := race.SetComment(alice.Participant.ID, "too early")
	assert.ErrorIs(t, err, ErrStillAsleep)

	refetched, _ := race.GetParticipant(alice.Participant.ID)
	assert.Nil(t, refetched.Comment)
}

func TestSetCommentOnlyOnce(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()
	alice, _ := race.Join(room.Code, "Alice")

	_, err := race.MarkAwake(room.ID, alice.Participant.ID)
	assert.NoError(t, err)

	p, err := race.SetComment(alice.Participant.ID, "good morning")
	assert.NoError(t, err)
	assert.Equal(t, "good morning", *p.Comment)

	_, err = race.SetComment(alice.Participant.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrCommentAlreadySet)

	refetched, _ := race.GetParticipant(alice.Participant.ID)
	assert.Equal(t, "good morning", *refetched.Comment)
}

func TestWinnerCommentVisible(t *testing.T) {
	race, rooms := setupRace(t)
	room, _ := rooms.CreateRoom()

	alice, _ := race.Join(room.Code, "Alice")
	_, _ = race.Join(room.Code, "Bob")

	_, err := race.MarkAwake(room.ID, alice.Participant.ID)
	assert.NoError(t, err)
	_, err = race.SetComment(alice.Participant.ID, "rise and shine")
	assert.NoError(t, err)

	// What any loser's refreshed view sees.
	winner, err := rooms.GetWinner(room.ID)
	assert.NoError(t, err)
	assert.NotNil(t, winner)
	assert.Equal(t, "Alice", winner.Nickname)
	assert.Equal(t, "rise and shine", *winner.Comment)
}
