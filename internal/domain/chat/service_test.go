package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"socialhub/internal/domain/user"
	"socialhub/internal/ws"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []ws.Event
}

func (e *recordingEmitter) Emit(_ int64, event ws.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func setupChatService(t *testing.T) (*Service, *recordingEmitter, *user.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}, &Message{}, &UnreadCount{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	// a single connection keeps concurrent writers off sqlite's lock errors
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	users := user.NewRepository(db)
	emitter := &recordingEmitter{}
	svc := NewService(NewRepository(db), users, emitter)
	return svc, emitter, users
}

func seedUser(t *testing.T, users *user.Repository, name string) int64 {
	t.Helper()
	u := &user.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		FullName:     "Test " + name,
		IsVerified:   true,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func TestSendValidation(t *testing.T) {
	svc, _, users := setupChatService(t)
	alice := seedUser(t, users, "alice")

	_, err := svc.Send(context.Background(), alice, 0, "hi")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Send(context.Background(), alice, alice, "   ")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Send(context.Background(), alice, alice, "hi")
	assert.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.Send(context.Background(), alice, 9999, "hi")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestSendStoresAndNotifies(t *testing.T) {
	svc, emitter, users := setupChatService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	msg, err := svc.Send(context.Background(), alice, bob, "  hello  ")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "hello", msg.Text)
	assert.False(t, msg.CreatedAt.IsZero())

	assert.Equal(t, 1, emitter.count())

	counts, err := svc.UnreadCounts(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[alice])

	// sender's own counters are untouched
	counts, err = svc.UnreadCounts(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestHistoryOrderAndDirections(t *testing.T) {
	svc, _, users := setupChatService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	carol := seedUser(t, users, "carol")

	_, err := svc.Send(context.Background(), alice, bob, "one")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), bob, alice, "two")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice, bob, "three")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice, carol, "other thread")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), alice, bob)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Text)
	assert.Equal(t, "two", history[1].Text)
	assert.Equal(t, "three", history[2].Text)

	// same conversation from the other side
	mirrored, err := svc.History(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.Len(t, mirrored, 3)
}

func TestLastMessage(t *testing.T) {
	svc, _, users := setupChatService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	_, err := svc.Last(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = svc.Send(context.Background(), alice, bob, "first")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), bob, alice, "second")
	require.NoError(t, err)

	last, err := svc.Last(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "second", last.Text)
}

func TestConcurrentSendsCountEveryMessage(t *testing.T) {
	svc, _, users := setupChatService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Send(context.Background(), alice, bob, fmt.Sprintf("msg %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	counts, err := svc.UnreadCounts(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(n), counts[alice])

	history, err := svc.History(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Len(t, history, n)
}

func TestResetUnread(t *testing.T) {
	svc, _, users := setupChatService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	carol := seedUser(t, users, "carol")

	_, err := svc.Send(context.Background(), alice, bob, "hi")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), carol, bob, "hey")
	require.NoError(t, err)

	require.NoError(t, svc.ResetUnread(context.Background(), bob, alice))

	counts, err := svc.UnreadCounts(context.Background(), bob)
	require.NoError(t, err)
	assert.NotContains(t, counts, alice) // zeroed counters drop out of the map
	assert.Equal(t, int64(1), counts[carol])

	// resetting an absent counter is fine
	assert.NoError(t, svc.ResetUnread(context.Background(), bob, 9999))

	// the reset counter increments cleanly afterwards
	_, err = svc.Send(context.Background(), alice, bob, "again")
	require.NoError(t, err)
	counts, err = svc.UnreadCounts(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[alice])
}
