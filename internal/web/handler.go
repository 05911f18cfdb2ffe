// Package web serves the three-step calculator form. Every action is a form
// POST answered with a redirect back to "/", so reloading never repeats it.
package web

import (
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/storage"
	"github.com/lifeforce/internal/theme"
	"github.com/lifeforce/internal/visualization"
)

// Store keeps the live session and the theme preference
type Store interface {
	SaveSession(id string, session *flow.Session) error
	GetSession(id string) (*storage.Snapshot, error)
	SetPreference(key, value string) error
	GetPreference(key string) (string, error)
}

// Options configures a Handler
type Options struct {
	Store  Store
	Logger *zap.Logger
	// Base is the state a new session starts from
	Base flow.InputState
	// Theme is used when no choice was saved yet; empty follows the browser
	Theme string
	// SessionID defaults to a random UUID
	SessionID string
}

// Handler serves the form for a single live session
type Handler struct {
	store        Store
	logger       *zap.Logger
	base         flow.InputState
	defaultTheme string
	sessionID    string
	mux          *http.ServeMux
	mu           sync.Mutex
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		store:        opts.Store,
		logger:       opts.Logger,
		base:         opts.Base,
		defaultTheme: opts.Theme,
		sessionID:    opts.SessionID,
		mux:          http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.sessionID == "" {
		h.sessionID = uuid.New().String()
	}

	h.mux.HandleFunc("GET /{$}", h.handlePage)
	h.mux.HandleFunc("GET /chart.svg", h.handleChart)
	h.mux.HandleFunc("GET /week.svg", h.handleWeekChart)
	h.mux.HandleFunc("POST /api/calculate", h.handleAPICalculate)
	h.mux.HandleFunc("POST /theme", h.handleTheme)

	h.mux.HandleFunc("POST /mode", h.action(func(r *http.Request, s *flow.Session) error {
		return s.SetMode(calc.Mode(r.PostFormValue("mode")))
	}))
	h.mux.HandleFunc("POST /continue", h.action(func(r *http.Request, s *flow.Session) error {
		return s.Continue()
	}))
	h.mux.HandleFunc("POST /calculate", h.action(func(r *http.Request, s *flow.Session) error {
		_, err := s.Calculate()
		return err
	}))
	h.mux.HandleFunc("POST /back", h.action(func(r *http.Request, s *flow.Session) error {
		return s.Back()
	}))
	h.mux.HandleFunc("POST /change-item", h.action(func(r *http.Request, s *flow.Session) error {
		return s.ChangeItem()
	}))
	h.mux.HandleFunc("POST /reset", h.action(func(r *http.Request, s *flow.Session) error {
		return s.Reset()
	}))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// SessionID identifies the live session in the store
func (h *Handler) SessionID() string {
	return h.sessionID
}

// load returns the live session, starting a new one when nothing is stored.
// Callers hold h.mu.
func (h *Handler) load() (*flow.Session, error) {
	snapshot, err := h.store.GetSession(h.sessionID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || snapshot.Session == nil {
		return flow.NewSession(h.base), nil
	}
	return snapshot.Session, nil
}

// action wraps a navigation step. Posted fields are applied first so typed
// values survive even when the step is refused.
func (h *Handler) action(fn func(r *http.Request, s *flow.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		h.mu.Lock()
		defer h.mu.Unlock()

		session, err := h.load()
		if err != nil {
			h.internalError(w, err)
			return
		}

		for _, field := range flow.Fields {
			if _, ok := r.PostForm[string(field)]; ok {
				if err := session.Set(field, r.PostFormValue(string(field))); err != nil {
					h.internalError(w, err)
					return
				}
			}
		}

		actionErr := fn(r, session)

		if err := h.store.SaveSession(h.sessionID, session); err != nil {
			h.internalError(w, err)
			return
		}

		switch {
		case actionErr == nil:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		case calc.IsValidationError(actionErr):
			h.render(w, r, session, http.StatusUnprocessableEntity, actionErr.Error())
		case errors.Is(actionErr, flow.ErrInvalidTransition):
			h.logger.Debug("navigation refused", zap.String("path", r.URL.Path), zap.Error(actionErr))
			h.render(w, r, session, http.StatusConflict, actionErr.Error())
		default:
			h.render(w, r, session, http.StatusBadRequest, actionErr.Error())
		}
	}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, err := h.load()
	if err != nil {
		h.internalError(w, err)
		return
	}

	w.Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	h.render(w, r, session, http.StatusOK, "")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, session *flow.Session, status int, message string) {
	data := PageData{
		Theme:    h.theme(r),
		Dots:     session.Indicator(),
		Step:     session.Step(),
		State:    session.State,
		IsHourly: session.State.Mode == calc.ModeHourly,
		Result:   session.Result,
		Error:    message,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	session, err := h.load()
	h.mu.Unlock()
	if err != nil {
		h.internalError(w, err)
		return
	}

	if session.Result == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(visualization.New(h.theme(r)).GenerateResultSVG(*session.Result)))
}

// handleWeekChart draws the weekly hours of the live session's profile
func (h *Handler) handleWeekChart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	session, err := h.load()
	h.mu.Unlock()
	if err != nil {
		h.internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(visualization.New(h.theme(r)).GenerateWeekSVG(session.State.Numbers())))
}

// theme picks the saved choice, then the configured default, then the
// browser's color scheme hint.
func (h *Handler) theme(r *http.Request) theme.Theme {
	saved, err := h.store.GetPreference(theme.PreferenceKey)
	if err != nil {
		h.logger.Warn("read theme preference", zap.Error(err))
	}
	if saved == "" {
		saved = h.defaultTheme
	}
	return theme.Resolve(saved, theme.SystemPrefersDark(r.Header.Get("Sec-CH-Prefers-Color-Scheme")))
}

func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	next := h.theme(r).Toggle()
	if err := h.store.SetPreference(theme.PreferenceKey, string(next)); err != nil {
		h.internalError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
