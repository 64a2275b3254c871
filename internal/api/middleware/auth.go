package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-event-feed/internal/api/shared/errors"
	"github.com/feral-file/ff-event-feed/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"
)

const (
	AUTH_TYPE_JWT    = "jwt"
	AUTH_TYPE_APIKEY = "apikey"
)

// JWT_LEEWAY absorbs clock skew with the identity provider on exp and nbf
const JWT_LEEWAY = 30 * time.Second

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string // "jwt" or "apikey"
	Claims      *jwt.RegisteredClaims
	AuthSubject string
	Error       error
}

// Authenticator verifies Authorization headers against a parsed AuthConfig
type Authenticator struct {
	publicKey    *rsa.PublicKey
	publicKeyErr error
	apiKeys      [][]byte
	parser       *jwt.Parser
}

// NewAuthenticator parses the public key and API keys once.
// A bad public key does not fail construction, it fails every bearer request instead.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	a := &Authenticator{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
			jwt.WithLeeway(JWT_LEEWAY),
		),
	}

	if cfg.JWTPublicKey == "" {
		a.publicKeyErr = errors.New("JWT public key not configured")
	} else if key, err := parseRSAPublicKey(cfg.JWTPublicKey); err != nil {
		a.publicKeyErr = fmt.Errorf("failed to parse RSA public key: %w", err)
	} else {
		a.publicKey = key
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}

	return a
}

// Authenticate validates the Authorization header against cfg
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	return NewAuthenticator(cfg).Authenticate(authHeader)
}

// Authenticate validates an Authorization header of the form "Bearer <jwt>" or "ApiKey <key>"
func (a *Authenticator) Authenticate(authHeader string) AuthResult {
	var result AuthResult

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_JWT
		result.Claims = claims
		result.AuthSubject = claims.Subject

	case "apikey":
		if err := a.validateAPIKey(credentials); err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_APIKEY

	default:
		result.Error = fmt.Errorf("unsupported authorization type: %s", scheme)
	}

	return result
}

// Auth returns a gin middleware that requires either a JWT (Bearer token) or an API key
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(NewAuthenticator(cfg), false)
}

// OptionalAuth authenticates the request when an Authorization header is present
// and lets anonymous requests through
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(NewAuthenticator(cfg), true)
}

// APIKeyAuth returns a gin middleware that only accepts API keys
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	auth := Auth(cfg)
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}

		if c.GetString(string(AUTH_TYPE_KEY)) != AUTH_TYPE_APIKEY {
			c.AbortWithStatusJSON(http.StatusForbidden, apierrors.NewForbiddenError("API key required"))
			return
		}
	}
}

func authenticate(authenticator *Authenticator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && optional {
			c.Next()
			return
		}

		result := authenticator.Authenticate(authHeader)
		if !result.Success {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error()))
			return
		}

		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		if result.Claims != nil {
			c.Set(string(JWT_CLAIMS_KEY), result.Claims)
		}
		if result.AuthSubject != "" {
			c.Set(string(AUTH_SUBJECT_KEY), result.AuthSubject)
		}
		logger.DebugCtx(c.Request.Context(), "Request authenticated",
			zap.String("path", c.Request.URL.Path),
			zap.String("auth_type", result.AuthType),
			zap.String("subject", result.AuthSubject),
		)

		c.Next()
	}
}

// Caller returns the authenticated user of the request and whether the request
// was made by a service holding an API key
func Caller(c *gin.Context) (subject string, privileged bool) {
	return c.GetString(string(AUTH_SUBJECT_KEY)), c.GetString(string(AUTH_TYPE_KEY)) == AUTH_TYPE_APIKEY
}

// validateJWT verifies the signature and the time claims of a token. A user token must name its subject.
func (a *Authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.publicKeyErr != nil {
		return nil, a.publicKeyErr
	}

	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// parseRSAPublicKey parses a PKIX or PKCS1 RSA public key in PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}

// validateAPIKey compares in constant time against every configured key
func (a *Authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}

	candidate := []byte(apiKey)
	matched := 0
	for _, key := range a.apiKeys {
		matched |= subtle.ConstantTimeCompare(candidate, key)
	}
	if matched != 1 {
		return errors.New("invalid API key")
	}

	return nil
}
