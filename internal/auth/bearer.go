package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultProjectID is used when the token claims carry no projectId.
const DefaultProjectID = "default"

// identityCtxKey is the Gin context key used to store the resolved identity.
const identityCtxKey = "identity"

// Identity is the tenant and optional caller resolved from a credential.
type Identity struct {
	ProjectID string
	UserID    string
}

// Resolver turns an Authorization header value into an Identity.
type Resolver interface {
	Resolve(authorization string) (Identity, error)
}

// Claims are the token claims this service reads. Everything else in the
// token is ignored.
type Claims struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	jwt.RegisteredClaims
}

// ClaimsResolver extracts the identity from a Bearer JWT. Without a secret it
// decodes the claims without verifying the signature; with a secret it
// requires a valid HS256 signature before trusting them.
type ClaimsResolver struct {
	secret []byte
}

// NewClaimsResolver builds a resolver. secret may be empty (unverified mode).
func NewClaimsResolver(secret string) *ClaimsResolver {
	var b []byte
	if secret != "" {
		b = []byte(secret)
	}
	return &ClaimsResolver{secret: b}
}

// Resolve implements Resolver.
func (r *ClaimsResolver) Resolve(authorization string) (Identity, error) {
	if authorization == "" {
		return Identity{}, errors.New("missing Authorization header")
	}

	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return Identity{}, errors.New("invalid Authorization header format")
	}

	claims := &Claims{}
	var err error
	if len(r.secret) > 0 {
		_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return r.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
	} else {
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("invalid bearer token: %w", err)
	}

	id := Identity{ProjectID: claims.ProjectID, UserID: claims.UserID}
	if id.ProjectID == "" {
		id.ProjectID = DefaultProjectID
	}
	return id, nil
}

// Middleware resolves the caller identity and stores it in the request
// context. Requests without a resolvable credential are rejected with 401.
func Middleware(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := r.Resolve(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}
		c.Set(identityCtxKey, id)
		c.Next()
	}
}

// From returns the resolved identity from the request context.
func From(c *gin.Context) Identity {
	v, _ := c.Get(identityCtxKey)
	id, _ := v.(Identity)
	return id
}
