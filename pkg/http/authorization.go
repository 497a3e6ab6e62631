// Package http provides bearer-token protection for the toolkit's HTTP and
// SSE serving transports.
package http

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/rs/zerolog"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/config"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/mcp"
)

// HealthEndpoint is served without authentication.
const HealthEndpoint = "/healthz"

// WellKnownEndpoints are served without authentication so OAuth clients can
// discover the protected-resource metadata.
var WellKnownEndpoints = []string{
	"/.well-known/oauth-protected-resource",
	"/.well-known/oauth-authorization-server",
	"/.well-known/openid-configuration",
}

// CatalogTokenVerifier validates a bearer token against the Unity Catalog
// deployment, confirming the caller may reach the functions API.
type CatalogTokenVerifier interface {
	VerifyToken(ctx context.Context, token string) error
}

// write401 sends a 401/Unauthorized response with WWW-Authenticate header.
func write401(w http.ResponseWriter, wwwAuthenticateHeader, errorType, message string) {
	w.Header().Set("WWW-Authenticate", wwwAuthenticateHeader+fmt.Sprintf(`, error=%q`, errorType))
	http.Error(w, message, http.StatusUnauthorized)
}

// validateToken performs all token validation steps: offline, OIDC provider,
// and Unity Catalog.
func validateToken(
	ctx context.Context,
	token string,
	oauthConfig *config.OAuthConfig,
	oidcProvider *oidc.Provider,
	verifier CatalogTokenVerifier,
) (*JWTClaims, error) {
	// Parse JWT claims
	claims, err := ParseJWTClaims(token)
	if err == nil && claims == nil {
		err = fmt.Errorf("failed to parse JWT claims from token")
	}

	// Offline validation
	if err == nil {
		err = claims.ValidateOffline(oauthConfig.Audience)
	}

	// Online OIDC provider validation
	if err == nil {
		err = claims.ValidateWithProvider(ctx, oauthConfig.Audience, oidcProvider)
	}

	// Unity Catalog validation
	if err == nil && oauthConfig.ValidateToken {
		err = claims.ValidateWithCatalog(ctx, verifier)
	}

	return claims, err
}

// AuthorizationMiddleware validates the OAuth flow for protected resources.
//
// The flow is skipped for unprotected resources, such as health checks and
// well-known endpoints.
//
//	There are several auth scenarios supported by this middleware:
//
//	 1. require_oauth is false:
//
//	    - The OAuth flow is skipped, and the server is effectively unprotected.
//	    - The request is passed to the next handler without any validation.
//
//	    see TestAuthorizationRequireOAuthFalse
//
//	 2. require_oauth is set to true, server is protected:
//
//	    2.1. Raw Token Validation (oidcProvider is nil):
//	         - The token is validated offline for basic sanity checks (expiration).
//	         - If audience is set, the token is validated against the audience.
//	         - If validate_token is set, the token is then checked against the
//	           Unity Catalog deployment.
//
//	         see TestAuthorizationRawToken
//
//	    2.2. OIDC Provider Validation (oidcProvider is not nil):
//	         - The token is validated offline for basic sanity checks (audience and expiration).
//	         - If audience is set, the token is validated against the audience.
//	         - The token is then validated against the OIDC Provider.
//	         - If validate_token is set, the token is then checked against the
//	           Unity Catalog deployment.
//
//	         see TestAuthorizationOidcToken
//
// Validated scopes are propagated into the request context so the MCP layer
// can enforce tool-scoped authorization.
func AuthorizationMiddleware(
	oauthConfig *config.OAuthConfig,
	oidcProvider *oidc.Provider,
	verifier CatalogTokenVerifier,
	logger zerolog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthEndpoint || slices.Contains(WellKnownEndpoints, r.URL.EscapedPath()) {
				next.ServeHTTP(w, r)
				return
			}
			if !oauthConfig.RequireOAuth {
				next.ServeHTTP(w, r)
				return
			}

			wwwAuthenticateHeader := "Bearer realm=\"Unity Catalog Bedrock Toolkit\""
			if oauthConfig.Audience != "" {
				wwwAuthenticateHeader += fmt.Sprintf(`, audience=%q`, oauthConfig.Audience)
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Msg("authentication failed - missing or invalid bearer token")
				write401(w, wwwAuthenticateHeader, "missing_token", "Unauthorized: Bearer token required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := validateToken(r.Context(), token, oauthConfig, oidcProvider, verifier)
			if err != nil {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Err(err).
					Msg("authentication failed - JWT validation error")
				write401(w, wwwAuthenticateHeader, "invalid_token", "Unauthorized: Invalid token")
				return
			}

			if scopes := claims.GetScopes(); len(scopes) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), mcp.TokenScopesContextKey, scopes))
			}
			next.ServeHTTP(w, r)
		})
	}
}

var allSignatureAlgorithms = []jose.SignatureAlgorithm{
	jose.EdDSA,
	jose.HS256,
	jose.HS384,
	jose.HS512,
	jose.RS256,
	jose.RS384,
	jose.RS512,
	jose.ES256,
	jose.ES384,
	jose.ES512,
	jose.PS256,
	jose.PS384,
	jose.PS512,
}

type JWTClaims struct {
	jwt.Claims
	Token string `json:"-"`
	Scope string `json:"scope,omitempty"`
}

func (c *JWTClaims) GetScopes() []string {
	if c.Scope == "" {
		return nil
	}
	return strings.Fields(c.Scope)
}

// ValidateOffline Checks if the JWT claims are valid and if the audience matches the expected one.
func (c *JWTClaims) ValidateOffline(audience string) error {
	expected := jwt.Expected{Time: time.Now()}
	if audience != "" {
		expected.AnyAudience = jwt.Audience{audience}
	}
	if err := c.Validate(expected); err != nil {
		return fmt.Errorf("JWT token validation error: %v", err)
	}
	return nil
}

// ValidateWithProvider validates the JWT claims against the OIDC provider.
func (c *JWTClaims) ValidateWithProvider(ctx context.Context, audience string, provider *oidc.Provider) error {
	if provider != nil {
		verifier := provider.Verifier(&oidc.Config{
			ClientID: audience,
		})
		_, err := verifier.Verify(ctx, c.Token)
		if err != nil {
			return fmt.Errorf("OIDC token validation error: %v", err)
		}
	}
	return nil
}

// ValidateWithCatalog checks the token against the Unity Catalog deployment.
func (c *JWTClaims) ValidateWithCatalog(ctx context.Context, verifier CatalogTokenVerifier) error {
	if verifier != nil {
		if err := verifier.VerifyToken(ctx, c.Token); err != nil {
			return fmt.Errorf("unity catalog token validation error: %v", err)
		}
	}
	return nil
}

func ParseJWTClaims(token string) (*JWTClaims, error) {
	tkn, err := jwt.ParseSigned(token, allSignatureAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT token: %w", err)
	}
	claims := &JWTClaims{}
	err = tkn.UnsafeClaimsWithoutVerification(claims)
	claims.Token = token
	return claims, err
}
