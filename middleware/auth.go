package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reportaxial/reportaxial-api/config"
	"github.com/reportaxial/reportaxial-api/models"
	"github.com/reportaxial/reportaxial-api/utils"
)

// SessionClaims contains the custom data carried by session tokens issued
// by the auth collaborator: the account ID and its role.
type SessionClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

// Validate rejects tokens that do not identify a recognized account.
func (c SessionClaims) Validate(ctx context.Context) error {
	if c.UserID == 0 {
		return &AuthError{Code: "MISSING_USER_ID", Message: "Token does not carry a user ID"}
	}
	switch c.Role {
	case models.RoleStore, models.RoleSupplier, models.RoleAdmin:
		return nil
	}
	return &AuthError{Code: "UNKNOWN_ROLE", Message: "Token role is not recognized"}
}

// EnsureValidToken is a middleware that will check the validity of the
// bearer session token. Tokens are HMAC-signed with the shared secret the
// auth collaborator uses to issue them.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		},
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &SessionClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		utils.GetLogger().Fatal("Failed to set up the session token validator", zap.Error(err))
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		utils.GetLogger().Warn("Rejected session token", zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"Missing or invalid session token."}}`)); writeErr != nil {
			utils.GetLogger().Warn("Failed to write error response", zap.Error(writeErr))
		}
	}

	jwtMiddleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims := token.CustomClaims.(*SessionClaims)

			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)
			c.Set("validated_claims", token)

			c.Next()
		}

		// Use the JWT middleware to check the token
		jwtMiddleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
	}
}

// RequireRole aborts the request unless the authenticated caller has one of
// the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetRole(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not extract user information",
				},
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Your role is not permitted to perform this action",
			},
		})
	}
}

// GetUserID extracts the authenticated account ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a uint"}
	}

	return id, nil
}

// GetRole extracts the authenticated caller's role from the Gin context
func GetRole(c *gin.Context) (string, error) {
	role, exists := c.Get("user_role")
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	roleStr, ok := role.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a string"}
	}

	return roleStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
