package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	tokenstore "HDTN/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextJTIKey    = "current_jti"
	ContextExpKey    = "current_exp"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("Token has been revoked (logout)")
	ErrNoSubject    = errors.New("invalid subject in token")
)

// Claims carried by an access token. Subject is the participant id.
type Claims struct {
	ParticipantID string
	JTI           string
	ExpiresAt     time.Time
}

// Authenticator issues and verifies HS256 access tokens.
type Authenticator struct {
	secret  []byte
	ttl     time.Duration
	revoked *tokenstore.Store
}

func NewAuthenticator(secret string, ttl time.Duration, revoked *tokenstore.Store) *Authenticator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if revoked == nil {
		revoked = tokenstore.New()
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, revoked: revoked}
}

// Issue returns a signed token for participantID.
func (a *Authenticator) Issue(participantID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   participantID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse verifies tokenStr and rejects revoked tokens.
func (a *Authenticator) Parse(tokenStr string) (Claims, error) {
	var rc jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &rc, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if a.revoked.IsRevoked(rc.ID) {
		return Claims{}, ErrRevokedToken
	}
	if strings.TrimSpace(rc.Subject) == "" {
		return Claims{}, ErrNoSubject
	}
	out := Claims{ParticipantID: rc.Subject, JTI: rc.ID}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	return out, nil
}

// Revoke invalidates the token with the given id.
func (a *Authenticator) Revoke(jti string, expiresAt time.Time) {
	a.revoked.Revoke(jti, expiresAt)
}

func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization header"})
			return
		}

		claims, err := a.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.ParticipantID)
		c.Set(ContextJTIKey, claims.JTI)
		c.Set(ContextExpKey, claims.ExpiresAt)
		c.Next()
	}
}

// CurrentUser returns the participant id set by Middleware.
func CurrentUser(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
