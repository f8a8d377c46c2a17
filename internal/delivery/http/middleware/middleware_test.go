package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS_AllowsListedOrigin(t *testing.T) {
	h := NewCORSMiddleware(&config.Config{AllowedOrigin: "http://shop.test, http://admin.test"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://admin.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://admin.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestCORS_UnknownOrigin(t *testing.T) {
	h := NewCORSMiddleware(&config.Config{AllowedOrigin: "http://shop.test"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := NewCORSMiddleware(&config.Config{AllowedOrigin: "*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(context.Background(), 1, 2, time.Hour, time.Hour)
	defer rl.Shutdown()
	h := rl.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_SweepDropsIdle(t *testing.T) {
	rl := NewRateLimiter(context.Background(), 10, 10, time.Hour, time.Minute)
	defer rl.Shutdown()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.allow("a")

	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	rl.allow("b")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}

type stubSessions struct {
	ids      []string
	shoppers []string
}

func (s *stubSessions) Get(_ context.Context, id, shopperID string) *usecase.Session {
	s.ids = append(s.ids, id)
	s.shoppers = append(s.shoppers, shopperID)
	return &usecase.Session{ID: id, ShopperID: shopperID}
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSessionMiddleware_IssuesCookies(t *testing.T) {
	sessions := &stubSessions{}
	var seen *usecase.Session
	h := NewSessionMiddleware(sessions, time.Hour, 48*time.Hour, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := usecase.SessionFromContext(r.Context())
		require.True(t, ok)
		seen = s
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	sid := cookies[SessionCookieName]
	require.NotNil(t, sid)
	assert.Equal(t, seen.ID, sid.Value)
	assert.True(t, sid.HttpOnly)
	assert.Equal(t, 3600, sid.MaxAge)
	_, err := uuid.Parse(seen.ID)
	assert.NoError(t, err)

	shopper := cookies[ShopperCookieName]
	require.NotNil(t, shopper)
	assert.Equal(t, seen.ShopperID, shopper.Value)
	assert.Equal(t, 48*3600, shopper.MaxAge)
	assert.NotEqual(t, seen.ID, seen.ShopperID)
}

func TestSessionMiddleware_ShopperOutlivesSession(t *testing.T) {
	sessions := &stubSessions{}
	h := NewSessionMiddleware(sessions, time.Hour, 48*time.Hour, false)(okHandler)

	shopperID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ShopperCookieName, Value: shopperID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Len(t, sessions.shoppers, 1)
	assert.Equal(t, shopperID, sessions.shoppers[0])
	cookies := cookiesByName(rec)
	assert.Equal(t, shopperID, cookies[ShopperCookieName].Value)
	assert.NotEmpty(t, cookies[SessionCookieName].Value)
}

func TestSessionMiddleware_ReusesValidCookie(t *testing.T) {
	sessions := &stubSessions{}
	h := NewSessionMiddleware(sessions, time.Hour, 48*time.Hour, false)(okHandler)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, sessions.ids, 2)
	assert.Equal(t, id, sessions.ids[0])
	assert.NotEqual(t, "not-a-uuid", sessions.ids[1])
}

func TestOptionalAuth(t *testing.T) {
	utils.SetSecret("test-secret")
	t.Cleanup(func() { utils.SetSecret("") })

	var got string
	h := OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ""
		if u := UserFromContext(r.Context()); u != nil {
			got = u.ID
		}
	}))

	token, err := utils.GenerateJWT("user-1", "ana@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}
