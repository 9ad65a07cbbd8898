package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/reportaxial/reportaxial-api/models"
)

func TestSessionClaimsValidate(t *testing.T) {
	tests := []struct {
		name    string
		claims  SessionClaims
		wantErr bool
	}{
		{"store claims", SessionClaims{UserID: 1, Role: models.RoleStore}, false},
		{"supplier claims", SessionClaims{UserID: 2, Role: models.RoleSupplier}, false},
		{"admin claims", SessionClaims{UserID: 3, Role: models.RoleAdmin}, false},
		{"missing user id", SessionClaims{Role: models.RoleStore}, true},
		{"unknown role", SessionClaims{UserID: 1, Role: "manager"}, true},
		{"empty role", SessionClaims{UserID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claims.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the stored id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", uint(42))

		id, err := GetUserID(c)
		assert.NoError(t, err)
		assert.Equal(t, uint(42), id)
	})

	t.Run("missing id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := GetUserID(c)
		assert.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", "42")

		_, err := GetUserID(c)
		assert.Error(t, err)

		var authErr *AuthError
		assert.ErrorAs(t, err, &authErr)
		assert.Equal(t, "INVALID_USER_ID", authErr.Code)
	})
}

func TestGetRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the stored role", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_role", models.RoleSupplier)

		role, err := GetRole(c)
		assert.NoError(t, err)
		assert.Equal(t, models.RoleSupplier, role)
	})

	t.Run("missing role", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := GetRole(c)
		assert.Error(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setAuth := func(userID uint, role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("user_role", role)
		}
	}

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	tests := []struct {
		name           string
		allowed        []string
		role           string
		authenticated  bool
		expectedStatus int
	}{
		{"store allowed on store route", []string{models.RoleStore}, models.RoleStore, true, http.StatusOK},
		{"supplier rejected on store route", []string{models.RoleStore}, models.RoleSupplier, true, http.StatusForbidden},
		{"either role passes a shared route", []string{models.RoleStore, models.RoleSupplier}, models.RoleSupplier, true, http.StatusOK},
		{"admin rejected on portal route", []string{models.RoleStore, models.RoleSupplier}, models.RoleAdmin, true, http.StatusForbidden},
		{"unauthenticated request", []string{models.RoleStore}, "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			if tt.authenticated {
				router.GET("/guarded", setAuth(7, tt.role), RequireRole(tt.allowed...), ok)
			} else {
				router.GET("/guarded", RequireRole(tt.allowed...), ok)
			}

			req, _ := http.NewRequest(http.MethodGet, "/guarded", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
