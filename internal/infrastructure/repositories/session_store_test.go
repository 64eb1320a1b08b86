package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

func testSession(chatID int64) *domain.Session {
	return &domain.Session{
		ChatID:    chatID,
		Wizard:    domain.WizardRegistration,
		Step:      "phone",
		Collected: map[string]string{"name": "Aliya", "age": "25"},
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// sessionStoreContract is the behavior every SessionStore backend must share.
func sessionStoreContract(t *testing.T, store domain.SessionStore) {
	ctx := context.Background()

	_, err := store.Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	session := testSession(100)
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, session.Wizard, got.Wizard)
	assert.Equal(t, session.Step, got.Step)
	assert.Equal(t, session.Collected, got.Collected)

	// The stored copy is isolated from later mutation of the returned one.
	got.Collected["name"] = "Mallory"
	again, err := store.Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Aliya", again.Collected["name"])

	// Overwrite advances the step.
	session.Step = "photo"
	session.Collected["phone"] = "+77001234567"
	require.NoError(t, store.Put(ctx, session))
	got, err = store.Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "photo", got.Step)
	assert.Equal(t, "+77001234567", got.Collected["phone"])

	require.NoError(t, store.Delete(ctx, 100))
	_, err = store.Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting a missing session is not an error.
	assert.NoError(t, store.Delete(ctx, 100))
}

func TestMemorySessionStore(t *testing.T) {
	sessionStoreContract(t, NewMemorySessionStore())
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sessionStoreContract(t, NewRedisSessionStore(client, time.Hour))
}

func TestRedisSessionStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(client, time.Minute)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testSession(100)))

	// An abandoned wizard evaporates when the TTL passes.
	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
