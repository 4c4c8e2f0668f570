package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	logger    *slog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderGame(id string, snap domain.Snapshot) ([]byte, error) {
	return renderTemplate(h.tpl.frag, "", gameView{ID: id, Snapshot: snap})
}

// renderBroadcast is installed as the service renderer. SSE data lines
// cannot carry raw newlines, so the fragment is flattened.
func (h *handlers) renderBroadcast(s app.Session) []byte {
	b, err := h.renderGame(s.ID, s.Snapshot())
	if err != nil {
		h.logger.Error("failed to render broadcast", "session", s.ID, "error", err)
		return nil
	}
	for i, c := range b {
		if c == '\n' || c == '\r' {
			b[i] = ' '
		}
	}
	return b
}

func (h *handlers) writeHTML(w http.ResponseWriter, b []byte, err error) {
	if err != nil {
		h.logger.Error("failed to render template", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	// resume the remembered session while it is still alive
	if id := sessionFromCookie(r); id != "" {
		if _, ok := h.svc.Get(id); ok {
			http.Redirect(w, r, "/game/"+id, http.StatusSeeOther)
			return
		}
	}
	b, err := renderTemplate(h.tpl.index, "base", nil)
	h.writeHTML(w, b, err)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateSession()
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/game/"+sess.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	setSessionCookie(w, sess.ID)
	b, err := renderTemplate(h.tpl.game, "base", gameView{ID: sess.ID, Snapshot: sess.Snapshot()})
	h.writeHTML(w, b, err)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess.Snapshot()); err != nil {
		h.logger.Error("failed to encode state", "session", id, "error", err)
	}
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	cell, err := formInt(r, "i")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := h.svc.Play(chi.URLParam(r, "id"), cell)
	h.respond(w, r, sess, err)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	step, err := formInt(r, "step")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := h.svc.JumpTo(chi.URLParam(r, "id"), step)
	h.respond(w, r, sess, err)
}

func (h *handlers) order(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.ToggleOrder(chi.URLParam(r, "id"))
	h.respond(w, r, sess, err)
}

// respond writes the game fragment for htmx requests and redirects plain
// form posts back to the page.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, sess *app.Session, err error) {
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrOutOfBounds), errors.Is(err, domain.ErrStepOutOfRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("transition failed", "path", r.URL.Path, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	if r.Header.Get("HX-Request") == "" {
		http.Redirect(w, r, "/game/"+sess.ID, http.StatusSeeOther)
		return
	}
	b, err := h.renderGame(sess.ID, sess.Snapshot())
	h.writeHTML(w, b, err)
}

func formInt(r *http.Request, key string) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, fmt.Errorf("invalid form: %w", err)
	}
	v, err := strconv.Atoi(r.Form.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, r.Form.Get(key))
	}
	return v, nil
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Clients that do not accept an event stream get the headers and no body
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: game\ndata: %s\n\n", b)
			flusher.Flush()
		}
	}
}
