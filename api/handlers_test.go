/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Session issuance and bearer-token gating
- Calendar rendering with mood decoration
- The setMood+persist pair and its typed persist outcome
- Request validation (vocabulary, date shape)
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/mood"
	"github.com/warp/mood-calendar/mood/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	docs := store.NewMemory()
	issuer := auth.NewIssuer(store.NewMemorySessions())
	h := NewHandler(issuer, docs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time {
		return time.Date(2026, time.April, 17, 10, 0, 0, 0, time.UTC)
	}

	srv := httptest.NewServer(NewRouter(h, []string{"http://localhost:5173"}))
	t.Cleanup(srv.Close)
	return srv, docs
}

func signIn(t *testing.T, srv *httptest.Server, uid string) string {
	t.Helper()

	body, _ := json.Marshal(SessionRequest{UserID: uid})
	resp, err := http.Post(srv.URL+"/api/session", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto SessionDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	require.NotEmpty(t, dto.Token)
	return dto.Token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// SESSION
// =============================================================================

func TestOpenSession_RequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/session", "application/json",
		bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequireSession_MissingToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/moods")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireSession_UnknownToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/moods", "bogus-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOpenSession_LoadsExistingMoods(t *testing.T) {
	// GIVEN: A mood document persisted in an earlier session
	// WHEN: The user signs in again
	// THEN: The identity transition loads the document, and the calendar
	//       shows the old moods

	srv, docs := newTestServer(t)
	require.NoError(t, docs.Upsert(context.Background(), mood.MoodDocPath("u-1"),
		mood.MoodMap{"2026-04-03": mood.Calm}))

	token := signIn(t, srv, "u-1")
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/moods", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[MoodsDTO](t, resp)
	assert.Equal(t, mood.Calm, dto.Moods["2026-04-03"])
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestGetCalendar_April2026(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendar/2026/4", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[CalendarDTO](t, resp)
	assert.Equal(t, "April 2026", dto.Label)
	require.Len(t, dto.Cells, 33) // 3 filler + 30 days

	today := 0
	for _, cell := range dto.Cells {
		if cell.Today {
			today++
			assert.Equal(t, "2026-04-17", cell.Date)
		}
	}
	assert.Equal(t, 1, today, "exactly one Today cell for the current month")
}

func TestGetCalendar_JanuaryFillerKeys(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendar/2026/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[CalendarDTO](t, resp)
	require.Greater(t, len(dto.Cells), 4)
	for i, want := range []string{"2025-12-28", "2025-12-29", "2025-12-30", "2025-12-31"} {
		assert.Equal(t, want, dto.Cells[i].Date)
		assert.True(t, dto.Cells[i].OtherMonth)
	}
}

func TestGetCalendar_InvalidMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	for _, m := range []string{"0", "13", "abc"} {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendar/2026/"+m, token, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "month %q", m)
	}
}

// =============================================================================
// MOODS
// =============================================================================

func TestSetMood_HappyPath(t *testing.T) {
	// GIVEN: A signed-in user
	// WHEN: A mood is assigned to a day
	// THEN: The response reports the saved persist, and the calendar
	//       renders the emoji on that day

	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/2026-04-03", token,
		SetMoodRequest{Mood: "happy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[SetMoodDTO](t, resp)
	assert.Equal(t, "happy", dto.Mood)
	assert.Equal(t, "😊", dto.Emoji)
	assert.Equal(t, string(mood.StatusSaved), dto.Persist.Status)

	cal := decode[CalendarDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/calendar/2026/4", token, nil))
	var found bool
	for _, cell := range cal.Cells {
		if cell.Date == "2026-04-03" {
			found = true
			assert.Equal(t, "happy", cell.Mood)
			assert.Equal(t, "😊", cell.Emoji)
		}
	}
	assert.True(t, found)
}

func TestSetMood_RejectsUnknownVocabulary(t *testing.T) {
	// API policy for the open question: the surface rejects values
	// outside {happy, sad, energetic, calm} with 400.

	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/2026-04-03", token,
		SetMoodRequest{Mood: "bored"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	moods := decode[MoodsDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/moods", token, nil))
	assert.Empty(t, moods.Moods, "rejected value must not reach storage")
}

func TestSetMood_RejectsMalformedDate(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	for _, date := range []string{
		"2026-4-3", "2026-00-01", "2026-13-01", "20260403", "2026-01-32",
		// Well-shaped but naming no real day.
		"2026-02-31", "2026-04-31", "2025-02-29",
	} {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/"+date, token,
			SetMoodRequest{Mood: "happy"})
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "date %q", date)
	}
}

func TestSetMood_PersistFailureIsReportedNotFatal(t *testing.T) {
	// GIVEN: A document store that fails writes
	// WHEN: A mood is assigned
	// THEN: The request still succeeds (the local mutation stands) and
	//       the persist block reports the failure

	srv, docs := newTestServer(t)
	token := signIn(t, srv, "u-1")
	docs.UpsertErr = fmt.Errorf("store unreachable")

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/2026-04-03", token,
		SetMoodRequest{Mood: "sad"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[SetMoodDTO](t, resp)
	assert.Equal(t, string(mood.StatusFailed), dto.Persist.Status)
	assert.NotEmpty(t, dto.Persist.Error)

	moods := decode[MoodsDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/moods", token, nil))
	assert.Equal(t, mood.Sad, moods.Moods["2026-04-03"], "optimistic mutation must stand")
}

func TestSetMood_WritesThroughToCacheDir(t *testing.T) {
	// GIVEN: A handler configured with a cache directory
	// WHEN: A mood is assigned
	// THEN: The user's slot file carries the mutation, and a fresh handler
	//       over an empty document store seeds from that slot

	cacheDir := t.TempDir()
	issuer := auth.NewIssuer(store.NewMemorySessions())
	h := NewHandler(issuer, store.NewMemory(),
		slog.New(slog.NewTextHandler(io.Discard, nil)), WithCacheDir(cacheDir))
	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)

	token := signIn(t, srv, "u-1")
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/2026-04-03", token,
		SetMoodRequest{Mood: "energetic"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	slot := mood.NewFileCache(filepath.Join(cacheDir, "u-1.json"))
	cached, err := slot.Read()
	require.NoError(t, err)
	assert.Equal(t, mood.MoodMap{"2026-04-03": mood.Energetic}, cached)

	// Restart with the remote unreachable: the slot is the fallback seed.
	docs2 := store.NewMemory()
	docs2.GetErr = errors.New("remote unreachable")
	h2 := NewHandler(auth.NewIssuer(store.NewMemorySessions()), docs2,
		slog.New(slog.NewTextHandler(io.Discard, nil)), WithCacheDir(cacheDir))
	srv2 := httptest.NewServer(NewRouter(h2, nil))
	t.Cleanup(srv2.Close)

	token2 := signIn(t, srv2, "u-1")
	moods := decode[MoodsDTO](t, doJSON(t, http.MethodGet, srv2.URL+"/api/moods", token2, nil))
	assert.Equal(t, mood.Energetic, moods.Moods["2026-04-03"])
}

func TestSetMood_LastWriteWins(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "u-1")

	for _, m := range []string{"happy", "calm"} {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/moods/2026-04-03", token,
			SetMoodRequest{Mood: m})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	moods := decode[MoodsDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/moods", token, nil))
	require.Len(t, moods.Moods, 1)
	assert.Equal(t, mood.Calm, moods.Moods["2026-04-03"])
}
