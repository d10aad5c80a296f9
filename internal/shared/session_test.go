package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "console_session", "session-secret", time.Hour, false), mr
}

func TestSessionRoundTripKeepsID(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.True(t, sess.IsNew())
	sess.Set("k", "v")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, strings.HasPrefix(cookies[0].Value, sess.ID+"."))

	next := httptest.NewRequest(http.MethodGet, "/users", nil)
	next.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "v", loaded.Get("k"))
	assert.False(t, loaded.IsNew())
}

func TestSessionUnknownCookieStartsFresh(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "stale"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", sess.ID)
	assert.True(t, sess.IsNew())
}

func TestSessionForgedCookieStartsFresh(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))
	require.True(t, mr.Exists("console:session:"+sess.ID))

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID + ".bogus"})
	loaded, err := sm.Load(ctx, forged)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, loaded.ID)
	assert.True(t, loaded.IsNew())
}

func TestSessionDestroyClearsCookie(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))
	require.True(t, mr.Exists("console:session:"+sess.ID))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	assert.False(t, mr.Exists("console:session:"+sess.ID))
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestCSRFTokenVerification(t *testing.T) {
	sm, _ := newTestManager(t)
	csrf := NewCSRFManager("secret")
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	again, _ := csrf.EnsureToken(context.Background(), sess)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(context.Background(), sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, "nope"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, ""), ErrCSRFTokenMissing)
}

func TestCSRFTokenIsBoundToSession(t *testing.T) {
	sm, _ := newTestManager(t)
	csrf := NewCSRFManager("secret")
	ctx := context.Background()
	victim, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	token, err := csrf.EnsureToken(ctx, victim)
	require.NoError(t, err)

	other, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	other.Set(CSRFSessionKey, token)

	assert.ErrorIs(t, csrf.VerifyToken(ctx, other, token), ErrCSRFTokenMismatch)
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := NewValidationError("As senhas não coincidem")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "As senhas não coincidem", err.Error())
}
