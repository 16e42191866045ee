package security

import (
	"errors"
	"time"

	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by every session token.
const (
	ClaimID         = "id"
	ClaimUsername   = "username"
	ClaimName       = "name"
	ClaimLastName   = "lastName"
	ClaimEmail      = "email"
	ClaimUserType   = "userType"
	ClaimCreateDate = "createDate"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// TokenIssuer signs user snapshots into time-limited tokens.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(auth *jwtauth.JWTAuth, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{auth: auth, ttl: ttl, now: time.Now}
}

// WithClock replaces the issuance clock; used by tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue returns a token whose exp is exactly ttl after its iat.
func (i *TokenIssuer) Issue(u model.UserSnapshot) (string, time.Time, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)

	claims := map[string]interface{}{
		ClaimID:         u.ID,
		ClaimUsername:   u.Username,
		ClaimName:       u.Name,
		ClaimLastName:   u.LastName,
		ClaimEmail:      u.Email,
		ClaimUserType:   u.UserType,
		ClaimCreateDate: u.CreateDate.UTC().Format(time.RFC3339Nano),
	}
	jwtauth.SetIssuedAt(claims, issuedAt)
	jwtauth.SetExpiry(claims, expiresAt)

	_, tokenString, err := i.auth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[ClaimID].(string)
	if !ok || id == "" {
		return "", errors.New("id claim is missing or not a string")
	}
	return id, nil
}

// SnapshotFromClaims rebuilds the embedded user snapshot.
func SnapshotFromClaims(claims jwt.MapClaims) (model.UserSnapshot, error) {
	id, err := GetUserIDFromClaims(claims)
	if err != nil {
		return model.UserSnapshot{}, err
	}
	username, ok := claims[ClaimUsername].(string)
	if !ok {
		return model.UserSnapshot{}, errors.New("username claim is missing or not a string")
	}
	s := model.UserSnapshot{
		ID:       id,
		Username: username,
		Name:     stringClaim(claims, ClaimName),
		LastName: stringClaim(claims, ClaimLastName),
		Email:    stringClaim(claims, ClaimEmail),
		UserType: stringClaim(claims, ClaimUserType),
	}
	if raw := stringClaim(claims, ClaimCreateDate); raw != "" {
		created, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return model.UserSnapshot{}, errors.New("createDate claim is not RFC 3339")
		}
		s.CreateDate = created
	}
	return s, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
