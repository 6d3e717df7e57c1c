// Package jwk provides the server's JSON Web Key pair. Session tokens issued
// by the HTTP API are signed with the private half; the public half is served
// on the JWKS endpoint so third parties can verify them.
package jwk

import (
	"crypto"
	"crypto/sha256"
	"fmt"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

// SigningMethod is the signing method for session tokens. Tokens are signed
// and verified with Ed25519 keys.
var SigningMethod = &jwt.SigningMethodEd25519{}

// Pair is a JSON Web Key pair.
type Pair struct {
	privateKey crypto.PrivateKey
	jwk        jose.JSONWebKey
}

// PrivateKey returns the signing key.
func (p Pair) PrivateKey() crypto.PrivateKey {
	return p.privateKey
}

// JWK returns the public JSON Web Key.
func (p Pair) JWK() jose.JSONWebKey {
	return p.jwk
}

// NewPair loads the server's JWT signing key and wraps it as a JSON Web Key
// pair. The key id is the hex sha256 of the raw private key, so it is stable
// for as long as the key on disk is.
func NewPair(cfg *config.Config) (Pair, error) {
	if cfg == nil {
		return Pair{}, config.ErrNilConfig
	}

	kp, err := cfg.JWT.KeyPair()
	if err != nil {
		return Pair{}, err
	}

	sum := sha256.Sum256(kp.RawPrivateKey())
	jwk := jose.JSONWebKey{
		Key:       kp.CryptoPublicKey(),
		KeyID:     fmt.Sprintf("%x", sum),
		Algorithm: SigningMethod.Alg(),
	}

	return Pair{privateKey: kp.PrivateKey(), jwk: jwk}, nil
}
