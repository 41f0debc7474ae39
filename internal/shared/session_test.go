package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "luvora_session", time.Hour, false)
}

func TestLoadWithoutCookieReturnsNewSession(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, sess.Owner())
}

func TestCommitPersistsOwnerAcrossRequests(t *testing.T) {
	sm := newTestSessionManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetOwner("owner-1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "luvora_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// Replay the cookie on a second request.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	loaded, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", loaded.Owner())
}

func TestCommitSkipsCleanSession(t *testing.T) {
	sm := newTestSessionManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	assert.Empty(t, rec.Result().Cookies())
}

func TestDestroyClearsSessionAndCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetOwner("owner-1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	cookie := rec.Result().Cookies()[0]

	sm.Destroy(sess)
	rec2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec2, sess))

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// The Redis entry is gone, so the cookie no longer resolves an owner.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	loaded, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, loaded.Owner())
}

func TestOwnerIDFromContext(t *testing.T) {
	sess := &Session{}
	sess.SetOwner("owner-9")
	ctx := ContextWithSession(context.Background(), sess)
	assert.Equal(t, "owner-9", OwnerID(ctx))
	assert.Empty(t, OwnerID(context.Background()))
}
