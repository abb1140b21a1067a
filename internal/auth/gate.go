// Package auth implements the shared-passphrase admin gate and the local
// store of remembered passphrases.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Gate checks admin passphrases against a single configured value.
type Gate struct {
	passphrase string
}

// NewGate creates a gate. An empty passphrase rejects everything.
func NewGate(passphrase string) *Gate {
	return &Gate{passphrase: passphrase}
}

// Check reports whether given matches the configured passphrase.
func (g *Gate) Check(given string) bool {
	if g.passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.passphrase), []byte(given)) == 1
}

// RegisterRoutes mounts the verification endpoint.
func (g *Gate) RegisterRoutes(r chi.Router) {
	r.Post("/api/admin/verify", g.handleVerify)
}

type verifyRequest struct {
	Passphrase string `json:"passphrase"`
}

func (g *Gate) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if !g.Check(req.Passphrase) {
		http.Error(w, `{"message":"Senha incorreta"}`, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
