package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "middleware_test_secret"

func newApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	auth := services.NewAuthService(nil, secret, time.Hour)
	app := fiber.New()
	app.Use(middleware.RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	whoami := func(c *fiber.Ctx) error {
		p := middleware.PrincipalFrom(c)
		if p == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(p.UserID.Hex() + ":" + p.Role)
	}
	app.Get("/private", middleware.SessionRequired(auth.Secret()), whoami)
	app.Get("/optional", middleware.SessionOptional(auth.Secret()), whoami)
	app.Get("/admin", middleware.SessionRequired(auth.Secret()), middleware.RequireAdmin(), whoami)
	return app, auth
}

func cookieFor(t *testing.T, auth *services.AuthService, role string) (*http.Cookie, primitive.ObjectID) {
	t.Helper()
	id := primitive.NewObjectID()
	token, err := auth.IssueToken(&models.User{ID: id, Email: "m@example.com", Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}, id
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSessionRequired(t *testing.T) {
	app, auth := newApp(t)

	status, body := get(t, app, "/private", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "Unauthorized")

	cookie, id := cookieFor(t, auth, models.RoleUser)
	status, body = get(t, app, "/private", cookie)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id.Hex()+":user", body)

	other := services.NewAuthService(nil, "someone_else", time.Hour)
	forged, _ := cookieFor(t, other, models.RoleAdmin)
	status, _ = get(t, app, "/private", forged)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestSessionOptional(t *testing.T) {
	app, auth := newApp(t)

	status, body := get(t, app, "/optional", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	status, body = get(t, app, "/optional", &http.Cookie{Name: middleware.SessionCookie, Value: "garbage"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	cookie, id := cookieFor(t, auth, models.RoleAdmin)
	_, body = get(t, app, "/optional", cookie)
	assert.Equal(t, id.Hex()+":admin", body)
}

func TestRequireAdmin(t *testing.T) {
	app, auth := newApp(t)

	user, _ := cookieFor(t, auth, models.RoleUser)
	status, _ := get(t, app, "/admin", user)
	assert.Equal(t, fiber.StatusForbidden, status)

	admin, _ := cookieFor(t, auth, models.RoleAdmin)
	status, _ = get(t, app, "/admin", admin)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequestLoggerPropagatesTraceID(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest("GET", "/optional", nil)
	req.Header.Set(middleware.TraceHeader, "trace-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(middleware.TraceHeader))

	resp, err = app.Test(httptest.NewRequest("GET", "/optional", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(middleware.TraceHeader))
}

func TestCORSWithExplicitOrigins(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CORS("https://shop.example.com"))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
