package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/enigma/internal/auth"
	"github.com/aretw0/enigma/internal/validator"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/aretw0/enigma/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// EncryptRequest is the body of POST /encrypt.
type EncryptRequest struct {
	Settings domain.Settings `json:"settings" validate:"required"`
	Text     string          `json:"text"`
}

// EncryptResponse carries ciphertext and the rotor positions it left behind.
type EncryptResponse struct {
	Text      string `json:"text"`
	Positions string `json:"positions"`
}

// SessionRequest is the body of POST /sessions and PUT /sessions/{id}.
type SessionRequest struct {
	ID       string          `json:"id,omitempty"`
	Settings domain.Settings `json:"settings" validate:"required"`
}

// TextRequest is the body of POST /sessions/{id}/encrypt.
type TextRequest struct {
	Text string `json:"text"`
}

// RotorInfo describes one rotor identity of the wiring tables.
type RotorInfo struct {
	ID     int    `json:"id"`
	Wiring string `json:"wiring"`
	Notch  string `json:"notch"`
}

// TablesResponse is the body of GET /rotors.
type TablesResponse struct {
	Reflector string      `json:"reflector"`
	Rotors    []RotorInfo `json:"rotors"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("invalid request body: %v", err)
	}
	return validator.Struct(v)
}

func sanitize(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	return runner.SanitizeInput(text)
}

// ListRotors handles the GET /rotors request.
func (s *Server) ListRotors(w http.ResponseWriter, r *http.Request) {
	resp := TablesResponse{Reflector: s.tables.Reflector().String()}
	for _, rot := range s.tables.Rotors() {
		resp.Rotors = append(resp.Rotors, RotorInfo{
			ID:     rot.ID,
			Wiring: rot.Wiring.String(),
			Notch:  string(rot.Notch.Rune()),
		})
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// Encrypt handles the POST /encrypt request. Every call builds a fresh machine,
// so nothing is remembered between requests.
func (s *Server) Encrypt(w http.ResponseWriter, r *http.Request) {
	var body EncryptRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, "Encrypt", err)
		return
	}
	text, err := sanitize(body.Text)
	if err != nil {
		s.writeError(w, r, "Encrypt", err)
		return
	}

	opts := []machine.Option{machine.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, machine.WithHooks(s.metrics.Hooks()))
	}
	m, err := machine.New(s.tables, body.Settings, opts...)
	if err != nil {
		s.writeError(w, r, "Encrypt", err)
		return
	}

	out := m.EncryptString(text)
	writeJSON(w, http.StatusOK, EncryptResponse{Text: out, Positions: m.Positions()}, s.logger)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	names, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, "ListSessions", err)
		return
	}
	names = allowedSessions(r.Context(), names)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": names}, s.logger)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, "CreateSession", err)
		return
	}
	if claims, _ := r.Context().Value(claimsKey{}).(*auth.Claims); claims != nil && !claims.Allows(body.ID) {
		s.writeError(w, r, "CreateSession", fmt.Errorf("%w: %q", auth.ErrForbidden, body.ID))
		return
	}
	s.storeSession(w, r, body.ID, body.Settings, http.StatusCreated)
}

// PutSession handles the PUT /sessions/{id} request.
func (s *Server) PutSession(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, "PutSession", err)
		return
	}
	s.storeSession(w, r, chi.URLParam(r, "id"), body.Settings, http.StatusOK)
}

func (s *Server) storeSession(w http.ResponseWriter, r *http.Request, id string, settings domain.Settings, status int) {
	sheet, err := s.Sessions.Create(r.Context(), id, settings)
	if err != nil {
		s.writeError(w, r, "StoreSession", err)
		return
	}
	s.refreshSessions(r.Context())
	s.publish(sheet.Name, "created", sheet.Settings.Code)
	writeJSON(w, status, sheet, s.logger)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.Sessions.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, st, s.logger)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "DeleteSession", err)
		return
	}
	s.refreshSessions(r.Context())
	s.publish(id, "deleted", "")
	w.WriteHeader(http.StatusNoContent)
}

// SessionEncrypt handles the POST /sessions/{id}/encrypt request.
func (s *Server) SessionEncrypt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body TextRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, "SessionEncrypt", err)
		return
	}
	text, err := sanitize(body.Text)
	if err != nil {
		s.writeError(w, r, "SessionEncrypt", err)
		return
	}

	out, positions, err := s.Sessions.EncryptWithPositions(r.Context(), id, text)
	if err != nil {
		s.writeError(w, r, "SessionEncrypt", err)
		return
	}
	s.publish(id, "encrypted", positions)
	writeJSON(w, http.StatusOK, EncryptResponse{Text: out, Positions: positions}, s.logger)
}

// SessionReset handles the POST /sessions/{id}/reset request.
func (s *Server) SessionReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	positions, err := s.Sessions.Reset(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "SessionReset", err)
		return
	}
	s.publish(id, "reset", positions)
	writeJSON(w, http.StatusOK, map[string]string{"positions": positions}, s.logger)
}

// refreshSessions keeps the sessions gauge in line with the store.
func (s *Server) refreshSessions(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	names, err := s.Sessions.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to count sessions", "err", err)
		return
	}
	s.metrics.Sessions.Set(float64(len(names)))
}
