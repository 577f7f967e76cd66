package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func callAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *uuid.UUID) {
	t.Helper()
	var seen *uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetUserID(r.Context())
		seen = &id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	Auth(testSecret)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	rec, seen := callAuth(t, "Bearer "+signToken(t, testSecret, userID.String()))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, userID, *seen)
}

func TestAuthRejectionsCarryStatusEnvelope(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", uuid.NewString())},
		{"garbage token", "Bearer not.a.jwt"},
		{"non-uuid subject", "Bearer " + signToken(t, testSecret, "someone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := callAuth(t, tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen, "next handler must not run")

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
				Status struct {
					Level   string `json:"level"`
					Message string `json:"message"`
				} `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
			assert.Equal(t, "error", body.Status.Level)
			assert.NotEmpty(t, body.Status.Message)
		})
	}
}
