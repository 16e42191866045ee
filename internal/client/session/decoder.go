package session

import (
	"errors"
	"fmt"
	"time"

	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecodeFailure covers malformed, expired and tampered tokens.
var ErrDecodeFailure = errors.New("session token could not be decoded")

// Decoder turns a stored token back into the user snapshot it carries.
type Decoder interface {
	Decode(token string) (model.UserSnapshot, error)
}

// JWTDecoder verifies HS256 signatures with the shared secret and requires exp.
type JWTDecoder struct {
	key []byte
	now func() time.Time
}

func NewJWTDecoder(key []byte) *JWTDecoder {
	return &JWTDecoder{key: key, now: time.Now}
}

// WithClock replaces the clock used for exp checks.
func (d *JWTDecoder) WithClock(now func() time.Time) *JWTDecoder {
	d.now = now
	return d
}

func (d *JWTDecoder) Decode(token string) (model.UserSnapshot, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return d.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(d.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return model.UserSnapshot{}, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	snapshot, err := security.SnapshotFromClaims(claims)
	if err != nil {
		return model.UserSnapshot{}, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	return snapshot, nil
}
