// Package tokens issues and validates the signed access tokens used by the
// identity service. Tokens are JWTs signed with HMAC-SHA-256 and a single
// process-wide secret.
package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mzakharov/chirpbook/internal/server/models"
)

// algorithm is the only signing algorithm this service issues or accepts.
const algorithm = "HS256"

// Parse failure variants. Callers that expose results externally should
// collapse all three to one opaque invalid-token answer.
var (
	ErrMalformed         = errors.New("token is malformed")
	ErrSignatureInvalid  = errors.New("token signature is invalid")
	ErrAlgorithmMismatch = errors.New("token signing algorithm is not allowed")
)

// Claims is the fixed claim set embedded in every access token. The jti
// (RegisteredClaims.ID) is fresh per issuance and joins exactly one refresh
// token ledger row.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and parses access tokens with a shared symmetric secret.
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewCodec constructs a Codec with the given secret and access token lifetime.
func NewCodec(secret []byte, accessTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, now: time.Now}
}

// Issue signs a new access token for the user and returns the serialized
// token together with the jti it embeds.
func (c *Codec) Issue(user *models.User) (string, string, error) {
	jti := uuid.NewString()
	now := c.now().UTC()

	claims := Claims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Parse verifies the token's signature and that its declared algorithm is
// HS256, compared case-insensitively so a header-substitution token cannot
// slip through on casing. Expiry is deliberately NOT enforced here: the
// refresh flow operates on expired access tokens, so callers check the exp
// claim themselves.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{algorithm}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if !strings.EqualFold(t.Method.Alg(), algorithm) {
			return nil, ErrAlgorithmMismatch
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgorithmMismatch):
			return nil, ErrAlgorithmMismatch
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Expired reports whether the claims' expiry lies in the past.
func (c *Codec) Expired(claims *Claims) bool {
	return claims.ExpiresAt.Time.Before(c.now())
}
