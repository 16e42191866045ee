package security

import (
	"testing"
	"time"

	"catalog_portal/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() model.UserSnapshot {
	return model.UserSnapshot{
		ID: "u-1", Username: "ana", Name: "Ana", LastName: "Li",
		Email: "a@x.com", UserType: "admin",
		CreateDate: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestIssue_ExpiresOneTTLAfterIssuance(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	fixed := time.Now().Add(-time.Minute)
	issuer := NewTokenIssuer(auth, time.Hour).WithClock(func() time.Time { return fixed })

	tokenString, expiresAt, err := issuer.Issue(testSnapshot())
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(auth, tokenString)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, token.Expiration().Sub(token.IssuedAt()))
	assert.Equal(t, expiresAt.Unix(), token.Expiration().Unix())

	claims := token.PrivateClaims()
	assert.Equal(t, "ana", claims[ClaimUsername])
	assert.Equal(t, "admin", claims[ClaimUserType])
	assert.Equal(t, "2024-03-01T12:30:00Z", claims[ClaimCreateDate])
	assert.NotContains(t, claims, "password")
}

func TestIssue_WrongKeyFailsVerification(t *testing.T) {
	issuer := NewTokenIssuer(jwtauth.New("HS256", []byte("one"), nil), time.Hour)
	tokenString, _, err := issuer.Issue(testSnapshot())
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(jwtauth.New("HS256", []byte("two"), nil), tokenString)
	assert.Error(t, err)
}

func TestSnapshotFromClaims_RoundTrip(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	tokenString, _, err := NewTokenIssuer(auth, time.Hour).Issue(testSnapshot())
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(auth, tokenString)
	require.NoError(t, err)

	s, err := SnapshotFromClaims(jwt.MapClaims(token.PrivateClaims()))
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), s)
}

func TestSnapshotFromClaims_Missing(t *testing.T) {
	_, err := SnapshotFromClaims(jwt.MapClaims{"username": "ana"})
	assert.Error(t, err)

	_, err = SnapshotFromClaims(jwt.MapClaims{"id": "u-1"})
	assert.Error(t, err)

	_, err = SnapshotFromClaims(jwt.MapClaims{"id": "u-1", "username": "ana", "createDate": "yesterday"})
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
