package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/larsholm/event-ticketing/internal/utils"
)

func jwtRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := JWTAuth("test-secret")(func(c echo.Context) error {
        return c.String(http.StatusOK, "ok")
    })
    require.NoError(t, h(c))
    return rec, c
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
    at, err := utils.NewAccessToken("test-secret", 42, "ATTENDEE", 15)
    require.NoError(t, err)

    rec, c := jwtRequest(t, "Bearer "+at.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, float64(42), c.Get("user_id"))
    assert.Equal(t, "ATTENDEE", c.Get("role"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
    rec, _ := jwtRequest(t, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
    at, err := utils.NewAccessToken("other-secret", 42, "ATTENDEE", 15)
    require.NoError(t, err)

    rec, _ := jwtRequest(t, "Bearer "+at.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMalformedToken(t *testing.T) {
    rec, _ := jwtRequest(t, "Bearer not-a-jwt")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
