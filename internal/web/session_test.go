package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-dashboard-go/internal/dataset"
	"vote-dashboard-go/internal/logger"
)

func TestSessionStoreGet(t *testing.T) {
	st := NewSessionStore(time.Hour)

	rec := httptest.NewRecorder()
	s := st.Get(rec, httptest.NewRequest("GET", "/", nil))
	require.NotEmpty(t, s.ID)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, s.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: s.ID})
	rec = httptest.NewRecorder()
	assert.Same(t, s, st.Get(rec, req))
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "forged"})
	assert.NotSame(t, s, st.Get(httptest.NewRecorder(), req))
	assert.Equal(t, 2, st.Len())
}

func TestSessionStorePrunesIdle(t *testing.T) {
	st := NewSessionStore(time.Minute)
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	old := st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	now = now.Add(2 * time.Minute)
	st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 1, st.Len())
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: old.ID})
	assert.NotSame(t, old, st.Get(httptest.NewRecorder(), req))
}

func TestSessionStoreExpiresUnusedSessionsSooner(t *testing.T) {
	st := NewSessionStore(time.Hour)
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	unused := st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	used := st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	used.SetUpload("up.json", []byte(`[{}]`))

	now = now.Add(unusedSessionIdle + time.Minute)
	st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 2, st.Len())
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: used.ID})
	assert.Same(t, used, st.Get(httptest.NewRecorder(), req))
	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: unused.ID})
	assert.NotSame(t, unused, st.Get(httptest.NewRecorder(), req))
}

func TestSessionStoreEvictsOldestWhenFull(t *testing.T) {
	st := NewSessionStore(time.Hour)
	st.max = 3
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		s := st.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		ids = append(ids, s.ID)
	}

	assert.Equal(t, 3, st.Len())
	for _, id := range ids[:7] {
		assert.NotContains(t, st.sessions, id)
	}
	for _, id := range ids[7:] {
		assert.Contains(t, st.sessions, id)
	}
}

func TestSessionDatasetCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votos.json")
	loader := dataset.NewLoader(path, 0, logger.NewWith(logger.Options{Out: io.Discard}), nil)
	s := &Session{ID: "s1"}
	ctx := context.Background()

	_, err := s.Dataset(ctx, loader)
	require.ErrorIs(t, err, dataset.ErrDataUnavailable)

	require.NoError(t, os.WriteFile(path, []byte(`[{}]`), 0o644))
	ds, err := s.Dataset(ctx, loader)
	require.NoError(t, err, "failed loads are not cached")
	assert.Equal(t, 1, ds.Source.Records)

	s.SetUpload("up.json", []byte(`[{}, {}]`))
	assert.True(t, s.HasUpload())
	ds, err = s.Dataset(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceUpload, ds.Source.Kind)

	s.ClearUpload()
	assert.False(t, s.HasUpload())
	ds, err = s.Dataset(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceLocal, ds.Source.Kind)
}
