package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/jwk"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = time.Hour

// sessionResponse is the body returned after a successful password login.
type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthController registers the session and key discovery routes.
func AuthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/v1/auth/session", postSession).Methods(http.MethodPost)
	r.HandleFunc("/.well-known/jwks.json", getJWKS).Methods(http.MethodGet)
}

// postSession exchanges basic credentials for a signed session token.
func postSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithPrefix("http.auth")
	be := backend.FromContext(ctx)

	handle, password, ok := r.BasicAuth()
	if !ok {
		renderError(w, r, proto.ErrNotAuthenticated)
		return
	}

	user, err := be.User(ctx, handle)
	if err != nil {
		// Unknown handles and bad passwords are indistinguishable.
		renderError(w, r, ErrInvalidPassword)
		return
	}

	if user.Password() == "" || !backend.VerifyPassword(password, user.Password()) {
		renderError(w, r, ErrInvalidPassword)
		return
	}

	cfg := config.FromContext(ctx)
	kp, err := jwk.NewPair(cfg)
	if err != nil {
		logger.Error("failed to get JWK pair", "err", err)
		renderError(w, r, err)
		return
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%s#%d", user.Handle(), user.ID()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    cfg.HTTP.PublicURL,
		Audience:  []string{cfg.HTTP.PublicURL},
	}

	token := jwt.NewWithClaims(jwk.SigningMethod, claims)
	token.Header["kid"] = kp.JWK().KeyID
	j, err := token.SignedString(kp.PrivateKey())
	if err != nil {
		logger.Error("failed to sign token", "err", err)
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, sessionResponse{
		Token:     j,
		ExpiresAt: expiresAt,
	})
}

// getJWKS serves the public half of the session signing key.
func getJWKS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)

	kp, err := jwk.NewPair(cfg)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{kp.JWK()},
	})
}
