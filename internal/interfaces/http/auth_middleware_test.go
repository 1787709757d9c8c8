package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-service/internal/interfaces/http"
	"github.com/jhoicas/inventario-service/pkg/config"
	pkgjwt "github.com/jhoicas/inventario-service/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testAPIKey    = "clave-compartida-de-prueba"
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "microservicio-productos"
	testService   = "microservicio-pedidos"
	testExpMin    = 60
)

// buildAuthApp construye una aplicación Fiber mínima con ServiceAuth y un handler dummy.
func buildAuthApp(cfg config.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.ServiceAuth(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "service": apphttp.GetService(c)})
	})
	return app
}

func doAuthRequest(t *testing.T, app *fiber.App, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), "la respuesta debe ser JSON: %s", raw)
	return resp, body
}

func bearer(t *testing.T, secret, issuer string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testService, issuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func fullAuth() config.AuthConfig {
	return config.AuthConfig{APIKey: testAPIKey, JWTSecret: testJWTSecret, JWTIssuer: testIssuer}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ServiceAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestServiceAuth_SinConfiguracionDejaPasar(t *testing.T) {
	resp, _ := doAuthRequest(t, buildAuthApp(config.AuthConfig{}), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestServiceAuth_APIKeyValida(t *testing.T) {
	resp, body := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{apphttp.HeaderAPIKey: testAPIKey})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "api-key", body["service"])
}

func TestServiceAuth_APIKeyIncorrecta(t *testing.T) {
	resp, body := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{apphttp.HeaderAPIKey: "otra"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", firstErrorCode(t, body))
}

func TestServiceAuth_SinCredenciales(t *testing.T) {
	resp, _ := doAuthRequest(t, buildAuthApp(fullAuth()), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuth_BearerValido(t *testing.T) {
	resp, body := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{
		"Authorization": bearer(t, testJWTSecret, testIssuer),
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, testService, body["service"])
}

func TestServiceAuth_BearerOtroIssuer(t *testing.T) {
	resp, _ := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{
		"Authorization": bearer(t, testJWTSecret, "otro-emisor"),
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuth_BearerFirmaIncorrecta(t *testing.T) {
	resp, _ := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{
		"Authorization": bearer(t, "secreto-equivocado", testIssuer),
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuth_FormatoInvalido(t *testing.T) {
	resp, _ := doAuthRequest(t, buildAuthApp(fullAuth()), map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuth_SoloAPIKeyConfigurada_RechazaBearer(t *testing.T) {
	cfg := config.AuthConfig{APIKey: testAPIKey}
	resp, _ := doAuthRequest(t, buildAuthApp(cfg), map[string]string{
		"Authorization": bearer(t, testJWTSecret, testIssuer),
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func firstErrorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok, "se esperaba un documento de error JSON:API: %v", body)
	require.NotEmpty(t, errs)
	obj, ok := errs[0].(map[string]interface{})
	require.True(t, ok)
	code, _ := obj["code"].(string)
	return code
}
