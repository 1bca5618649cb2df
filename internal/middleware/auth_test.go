package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func tokenFor(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, util.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("user=" + UserID(r.Context())))
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	v, err := util.NewVerifier(testSecret, "")
	require.NoError(t, err)
	h := AuthMiddleware(v, zerolog.Nop())(echoUser())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer not-a-jwt").Code)

	rec := serve(h, "Bearer "+tokenFor(t, "user-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=user-1", rec.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	v, err := util.NewVerifier(testSecret, "")
	require.NoError(t, err)
	h := OptionalAuthMiddleware(v, zerolog.Nop())(echoUser())

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer not-a-jwt").Code)

	rec = serve(h, "bearer "+tokenFor(t, "user-2"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=user-2", rec.Body.String())
}
