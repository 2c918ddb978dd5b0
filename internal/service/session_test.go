package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilov/authcore/internal/model"
	"github.com/ddanilov/authcore/internal/testutil"
	"github.com/ddanilov/authcore/internal/token"
)

// memRefreshStore is an in-memory RefreshTokenStore whose ConsumeByToken is
// atomic under a mutex, mirroring the DELETE RETURNING semantics of the
// Postgres repository.
type memRefreshStore struct {
	mu   sync.Mutex
	rows map[string]model.RefreshToken
}

func newMemRefreshStore() *memRefreshStore {
	return &memRefreshStore{rows: map[string]model.RefreshToken{}}
}

func (s *memRefreshStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[token.Token] = token
	return nil
}

func (s *memRefreshStore) ConsumeByToken(_ context.Context, token string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	delete(s.rows, token)
	return row, nil
}

func (s *memRefreshStore) DeleteByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, token)
	return nil
}

func (s *memRefreshStore) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, row := range s.rows {
		if row.UserID == userID {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

func (s *memRefreshStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := []model.Session{}
	for _, row := range s.rows {
		if row.UserID == userID {
			sessions = append(sessions, model.Session{
				ID: row.ID, Family: row.Family, CreatedAt: row.CreatedAt, ExpiresAt: row.ExpiresAt,
			})
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
	return sessions, nil
}

func (s *memRefreshStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, row := range s.rows {
		if row.ExpiresAt.Before(now) {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

func newTestSession(store model.RefreshTokenStore) *Session {
	signer := token.NewJWT("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	return NewSession(signer, store, testutil.MakeNoopLogger(), time.Hour)
}

func TestSession_Create(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)
	userID := uuid.New()

	pair, err := s.Create(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, uuid.Nil, pair.Family)

	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, pair.Family, sessions[0].Family)
}

func TestSession_Rotate_PreservesFamily(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)
	userID := uuid.New()

	pair, err := s.Create(ctx, userID)
	require.NoError(t, err)

	rotated, err := s.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.Family, rotated.Family)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSession_Rotate_ReuseRevokesEverything(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)
	userID := uuid.New()

	pair, err := s.Create(ctx, userID)
	require.NoError(t, err)

	// A second, unrelated session should die with the rest on reuse.
	_, err = s.Create(ctx, userID)
	require.NoError(t, err)

	_, err = s.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, err = s.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, model.ErrSessionInvalidated)

	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSession_Rotate_MalformedToken(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(newMemRefreshStore())

	_, err := s.Rotate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestSession_Rotate_AccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)

	pair, err := s.Create(ctx, uuid.New())
	require.NoError(t, err)

	_, err = s.Rotate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestSession_Rotate_StoredExpiryPassed(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	signer := token.NewJWT("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	s := NewSession(signer, store, testutil.MakeNoopLogger(), time.Hour)
	userID := uuid.New()

	// Signed expiry is still in the future, but the stored row is stale.
	refresh, err := signer.SignRefresh(userID)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, model.RefreshToken{
		ID:        uuid.New(),
		Token:     refresh,
		Family:    uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}))

	_, err = s.Rotate(ctx, refresh)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)

	// The dead row was consumed and no successor was created.
	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSession_Logout_AbsentTokenIsNoError(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(newMemRefreshStore())

	assert.NoError(t, s.Logout(ctx, "never-stored"))
}

func TestSession_RevokeAll(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)
	userID := uuid.New()
	otherID := uuid.New()

	_, err := s.Create(ctx, userID)
	require.NoError(t, err)
	_, err = s.Create(ctx, userID)
	require.NoError(t, err)
	other, err := s.Create(ctx, otherID)
	require.NoError(t, err)

	require.NoError(t, s.RevokeAll(ctx, userID))

	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Other users are untouched.
	remaining, err := s.List(ctx, otherID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.Family, remaining[0].Family)
}

func TestSession_RotateConcurrencySingleWinner(t *testing.T) {
	ctx := context.Background()
	store := newMemRefreshStore()
	s := newTestSession(store)
	userID := uuid.New()

	pair, err := s.Create(ctx, userID)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Rotate(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	reuse := 0
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, model.ErrSessionInvalidated):
			reuse++
		default:
			t.Fatalf("unexpected rotate error: %v", err)
		}
	}

	if success != 1 {
		t.Fatalf("expected exactly one rotate success, got %d", success)
	}
	if reuse != n-1 {
		t.Fatalf("expected %d reuse failures, got %d", n-1, reuse)
	}

	// The winner's child row may itself have been revoked by a later
	// loser's whole-user revocation, so at most one row remains.
	sessions, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(sessions), 1)
}
