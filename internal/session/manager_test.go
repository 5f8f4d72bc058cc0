package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "6f1c4b8e-2d7a-4c3e-9b1f-0a2b3c4d5e6f"

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, Options{TTL: time.Hour, CookieSecure: true})
	m.newID = func() string { return testID }
	return m, store
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestManager_NewSession(t *testing.T) {
	m, _ := newTestManager()
	rec := httptest.NewRecorder()

	s, release, err := m.Acquire(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.NoError(t, err)
	defer release()

	assert.Equal(t, testID, s.ID)
	assert.True(t, s.Cart.IsEmpty())

	c := sessionCookie(t, rec)
	assert.Equal(t, testID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestManager_ResumesSession(t *testing.T) {
	m, store := newTestManager()
	saved := sampleSession("0b9d7c6e-5f4a-4b3c-8d2e-1f0a9b8c7d6e")
	require.NoError(t, store.Save(context.Background(), saved))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: saved.ID})
	rec := httptest.NewRecorder()

	s, release, err := m.Acquire(rec, req)
	require.NoError(t, err)
	release()

	assert.Equal(t, saved, s)
	assert.Equal(t, saved.ID, sessionCookie(t, rec).Value)
}

func TestManager_UnknownOrBogusCookie(t *testing.T) {
	for _, value := range []string{"0b9d7c6e-5f4a-4b3c-8d2e-1f0a9b8c7d6e", "../../etc/passwd"} {
		m, _ := newTestManager()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})

		s, release, err := m.Acquire(httptest.NewRecorder(), req)
		require.NoError(t, err)
		release()
		assert.Equal(t, testID, s.ID)
	}
}

func TestManager_SerialisesSameSession(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleSession(testID)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/cart/add", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: testID})
			s, release, err := m.Acquire(httptest.NewRecorder(), req)
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			s.Cart.Lines[0].Quantity++
			assert.NoError(t, m.Save(ctx, s))
		}()
	}
	wg.Wait()

	s, err := store.Get(ctx, testID)
	require.NoError(t, err)
	assert.Equal(t, 21, s.Cart.Lines[0].Quantity)
	assert.Zero(t, m.locks.size())
}
