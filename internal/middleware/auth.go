package middleware

import (
	"net/http"
	"strings"

	"backend/internal/config"
	"backend/internal/policy"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies.
func SetTokenCookies(c *gin.Context, cfg config.JWTConfig, env, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if env == config.EnvProduction {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, int(cfg.Expiration.Seconds()), "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, int(cfg.RefreshExpiration.Seconds()), "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies.
func ClearTokenCookies(c *gin.Context, env string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if env == config.EnvProduction {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// TokenFromRequest extracts the access token: cookie first, then the
// Authorization header, then the token query parameter (websocket clients
// cannot set headers).
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// ParseIdentity validates a signed token and returns (userID, email).
func ParseIdentity(tokenString, secret string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if email == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return sub, policy.Normalize(email), nil
}

// Authenticate validates the JWT and stores the caller's identity in the
// gin context. It does not check any role; stack a Require* middleware on
// top for that.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		userID, email, err := ParseIdentity(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, email)
		c.Next()
	}
}

// Identity returns the authenticated email set by Authenticate.
func Identity(c *gin.Context) string {
	email, _ := c.Get(ContextUserEmail)
	s, _ := email.(string)
	return s
}

// RequireAdmin rejects identities missing from the admin allow-list.
func RequireAdmin(access *policy.AccessPolicy) gin.HandlerFunc {
	return requireCheck(access.IsAuthorizedAdmin, "Access denied: admin authorization required")
}

// RequireSuperAdmin rejects everyone but super-admins.
func RequireSuperAdmin(access *policy.AccessPolicy) gin.HandlerFunc {
	return requireCheck(access.IsSuperAdmin, "Access denied: super-admin authorization required")
}

// RequireCustomerManager guards the customer directory.
func RequireCustomerManager(access *policy.AccessPolicy) gin.HandlerFunc {
	return requireCheck(access.CanManageCustomers, "Access denied: customer management authorization required")
}

func requireCheck(check func(string) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !check(Identity(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, message))
			return
		}
		c.Next()
	}
}
