package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aqsit-be/internal/user"
	"aqsit-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedUser struct {
	userID uint
	found  bool
	role   string
}

func captureNext(captured *capturedUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.userID, captured.found = utils.GetUserIDFromContext(r.Context())
		captured.role = utils.GetUserRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	t.Run("ValidToken", func(t *testing.T) {
		token, err := user.GenerateJWT(user.User{
			ID: 1, Email: "buyer@example.com", Role: user.RoleUser,
			Verification: user.VerificationVerified,
		})
		require.NoError(t, err)

		var captured capturedUser
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		AuthMiddleware(captureNext(&captured)).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, captured.found)
		assert.Equal(t, uint(1), captured.userID)
		assert.Equal(t, "user", captured.role)
	})

	t.Run("NoHeaderPassesAnonymously", func(t *testing.T) {
		var captured capturedUser
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		AuthMiddleware(captureNext(&captured)).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, captured.found)
	})

	t.Run("WrongSecretPassesAnonymously", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "other-secret")
		token, err := user.GenerateJWT(user.User{ID: 1, Email: "buyer@example.com", Role: user.RoleUser})
		require.NoError(t, err)

		t.Setenv("SECRET_KEY", "test-secret")
		var captured capturedUser
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		AuthMiddleware(captureNext(&captured)).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, captured.found)
	})

	t.Run("GarbageTokenPassesAnonymously", func(t *testing.T) {
		var captured capturedUser
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")

		AuthMiddleware(captureNext(&captured)).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, captured.found)
	})
}
