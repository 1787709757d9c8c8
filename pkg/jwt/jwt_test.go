package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "secreto-de-prueba"
	issuer = "microservicio-productos"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate(secret, "microservicio-pedidos", issuer, 5)
	require.NoError(t, err)

	service, err := Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, "microservicio-pedidos", service)
}

func TestParse_SinIssuerNoValidaEmisor(t *testing.T) {
	tok, err := Generate(secret, "svc", "cualquiera", 5)
	require.NoError(t, err)

	service, err := Parse(secret, "", tok)
	require.NoError(t, err)
	assert.Equal(t, "svc", service)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := Generate(secret, "svc", issuer, 5)
	require.NoError(t, err)
	expired, err := Generate(secret, "svc", issuer, -1)
	require.NoError(t, err)

	cases := map[string]struct {
		secret, issuer, token string
	}{
		"firma incorrecta": {"otro", issuer, valid},
		"otro issuer":      {secret, "otro", valid},
		"expirado":         {secret, issuer, expired},
		"basura":           {secret, issuer, "no.es.jwt"},
		"secret vacío":     {"", issuer, valid},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tc.secret, tc.issuer, tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "svc", issuer, 5)
	assert.Error(t, err)
}
