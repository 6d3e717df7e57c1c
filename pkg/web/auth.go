package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/jwk"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// ErrInvalidToken is returned when a token is invalid.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidPassword is returned when a password doesn't match.
var ErrInvalidPassword = errors.New("invalid password")

// withUser is a middleware that authenticates the request and stores the
// user in the request context. Requests without a valid identity never reach
// the wrapped handler.
func withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.FromContext(ctx)

		user, err := authenticate(r)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidToken):
			case errors.Is(err, ErrInvalidPassword):
			case errors.Is(err, proto.ErrNotAuthenticated):
			case errors.Is(err, proto.ErrUserNotFound):
			case errors.Is(err, proto.ErrTokenExpired):
			default:
				logger.Error("failed to authenticate", "err", err)
			}

			// A credential naming an unknown user reads the same as a bad
			// one.
			if errors.Is(err, proto.ErrUserNotFound) {
				err = proto.ErrNotAuthenticated
			}
			renderError(w, r, err)
			return
		}

		ctx = proto.WithUserContext(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// authenticate resolves the user from the request's Authorization header.
// Bearer credentials may be an access token or a signed session token, basic
// credentials are a handle and password.
func authenticate(r *http.Request) (proto.User, error) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, proto.ErrNotAuthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}

	switch strings.ToLower(parts[0]) {
	case "bearer":
		if strings.HasPrefix(parts[1], "vl_") {
			user, err := be.UserByAccessToken(ctx, parts[1])
			if err != nil {
				return nil, err
			}
			return user, nil
		}

		return userFromJWT(ctx, parts[1])
	case "basic":
		handle, password, ok := r.BasicAuth()
		if !ok {
			return nil, ErrInvalidPassword
		}

		user, err := be.User(ctx, handle)
		if err != nil {
			return nil, err
		}

		if user.Password() == "" || !backend.VerifyPassword(password, user.Password()) {
			return nil, ErrInvalidPassword
		}

		return user, nil
	default:
		return nil, ErrInvalidToken
	}
}

// userFromJWT verifies a session token and resolves its subject.
func userFromJWT(ctx context.Context, bearer string) (proto.User, error) {
	logger := log.FromContext(ctx).WithPrefix("http.auth")
	be := backend.FromContext(ctx)

	claims, err := getJWTClaims(ctx, bearer)
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(claims.Subject, "#", 2)
	if len(parts) != 2 {
		logger.Error("invalid jwt subject", "subject", claims.Subject)
		return nil, ErrInvalidToken
	}

	user, err := be.User(ctx, parts[0])
	if err != nil {
		return nil, err
	}

	// The subject binds the token to both the handle and the user id so a
	// recycled handle can't resurrect an old token.
	expectedSubject := fmt.Sprintf("%s#%d", user.Handle(), user.ID())
	if expectedSubject != claims.Subject {
		logger.Error("invalid jwt subject", "subject", claims.Subject, "expected", expectedSubject)
		return nil, ErrInvalidToken
	}

	return user, nil
}

func getJWTClaims(ctx context.Context, bearer string) (*jwt.RegisteredClaims, error) {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("http.auth")
	kp, err := jwk.NewPair(cfg)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, errors.New("invalid signing method")
		}

		return kp.JWK().Key, nil
	},
		jwt.WithIssuer(cfg.HTTP.PublicURL),
		jwt.WithIssuedAt(),
		jwt.WithAudience(cfg.HTTP.PublicURL),
	)
	if err != nil {
		logger.Error("failed to parse jwt", "err", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
