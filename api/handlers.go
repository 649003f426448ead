/*
handlers.go - HTTP API handlers for the mood calendar

PURPOSE:
  Exposes the mood calendar via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calendar and mood packages.

ENDPOINTS:
  Session:
    POST   /api/session                    Sign in, returns bearer token

  Calendar:
    GET    /api/calendar/{year}/{month}    Month grid decorated with moods

  Moods:
    GET    /api/moods                      Current mood map
    PUT    /api/moods/{date}               Assign a mood to one day

ARCHITECTURE:
  Handler holds the session issuer, the document store, and one mood
  controller per signed-in user. Controllers are created lazily on first
  sign-in; creating one binds it to a fresh identity registry and the
  sign-in transition triggers the initial load.

PERSIST SEMANTICS:
  PUT /api/moods/{date} is the setMood+persist pair: the local mutation
  always succeeds once authenticated, and the response carries the typed
  durable-write outcome. A transport failure is NOT a 5xx - the page
  already reflects the change optimistically; the persist block in the
  response says whether it also reached the store.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 401: Missing or unknown bearer token
  - 500: Session issuance failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/calendar"
	"github.com/warp/mood-calendar/mood"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Issuer *auth.Issuer
	Docs   mood.DocumentStore

	log      *slog.Logger
	now      func() time.Time // injectable clock for Today flags
	cacheDir string           // "" disables the local single-slot caches

	mu          sync.Mutex
	controllers map[string]*mood.Controller
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCacheDir enables the local single-slot mood cache: each user's
// controller gets a slot file under dir, seeded at creation and written
// through on every mutation.
func WithCacheDir(dir string) HandlerOption {
	return func(h *Handler) { h.cacheDir = dir }
}

// NewHandler creates a new handler backed by the given stores.
func NewHandler(issuer *auth.Issuer, docs mood.DocumentStore, log *slog.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		Issuer:      issuer,
		Docs:        docs,
		log:         log,
		now:         time.Now,
		controllers: make(map[string]*mood.Controller),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// controllerFor returns the mood controller for uid, creating and
// authenticating it on first use. Creation walks the full gate: the
// controller starts unauthenticated, binds to a registry, and the sign-in
// transition fires the one initial load.
func (h *Handler) controllerFor(uid string) *mood.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.controllers[uid]; ok {
		return c
	}
	var opts []mood.Option
	if h.cacheDir != "" {
		slot := filepath.Join(h.cacheDir, url.PathEscape(uid)+".json")
		opts = append(opts, mood.WithCache(mood.NewFileCache(slot)))
	}
	c := mood.NewController(h.Docs, h.log, opts...)
	reg := auth.NewRegistry()
	c.Bind(reg)
	reg.SignIn(uid)
	h.controllers[uid] = c
	return c
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// OpenSession signs a user in and returns a bearer token.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.Issuer.Issue(r.Context(), req.UserID)
	if err != nil {
		h.log.Error("session issuance failed", "user", req.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	// Establish identity now so the initial load happens at sign-in, not
	// on the first calendar request.
	h.controllerFor(req.UserID)

	writeJSON(w, http.StatusCreated, SessionDTO{Token: sess.Token, UserID: sess.UserID})
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar renders the month grid for {year}/{month}, each cell
// decorated with the signed-in user's mood for that day, if any.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	month := time.Month(monthNum)

	ctl := h.controllerFor(userID(r))
	cells := calendar.Grid(year, month, h.now())

	dtos := make([]CellDTO, len(cells))
	for i, cell := range cells {
		dto := CellDTO{
			Day:        cell.Day,
			Date:       cell.Key.String(),
			OtherMonth: cell.OtherMonth,
			Today:      cell.Today,
		}
		if m, ok := ctl.MoodFor(cell.Key); ok {
			dto.Mood = string(m)
			dto.Emoji = m.Emoji()
		}
		dtos[i] = dto
	}

	writeJSON(w, http.StatusOK, CalendarDTO{
		Year:  year,
		Month: monthNum,
		Label: calendar.Label(year, month),
		Cells: dtos,
	})
}

// =============================================================================
// MOOD HANDLERS
// =============================================================================

// GetMoods returns the signed-in user's full mood map.
func (h *Handler) GetMoods(w http.ResponseWriter, r *http.Request) {
	ctl := h.controllerFor(userID(r))
	writeJSON(w, http.StatusOK, MoodsDTO{Moods: ctl.Moods()})
}

// SetMood assigns a mood to one day and persists. One selection, one
// persist call - no batching.
func (h *Handler) SetMood(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !ValidDateParam(date) {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	var req SetMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctl := h.controllerFor(userID(r))
	m := mood.Mood(req.Mood)
	ctl.SetMood(calendar.DateKey(date), m)
	result := ctl.Persist(r.Context())

	dto := SetMoodDTO{
		Date:    date,
		Mood:    req.Mood,
		Emoji:   m.Emoji(),
		Persist: PersistDTO{Status: string(result.Status)},
	}
	if result.Err != nil {
		dto.Persist.Error = result.Err.Error()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorDTO{Error: message})
}
