package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/api"
	"github.com/carrental-io/carrental-qa/internal/api/apitest"
)

func newRawServer(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestTokenClaims(t *testing.T) {
	raw, err := apitest.IssueToken("42", "employee", "employee@carrental.com", "Employee")
	require.NoError(t, err)
	tok := api.Token(raw)

	claims, err := tok.Claims()
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.Username)
	assert.Equal(t, "employee@carrental.com", claims.Email)
	assert.Equal(t, []string{"Employee"}, claims.Roles)
	assert.True(t, claims.HasRole("employee"))
	assert.False(t, claims.HasRole("Admin"))
	assert.Equal(t, apitest.Issuer, claims.Issuer)
	assert.Equal(t, []string{apitest.Audience}, claims.Audience)
}

func TestTokenRedaction(t *testing.T) {
	tok := api.Token("eyJhbGciOiJIUzI1NiJ9.payload.signature")
	assert.Equal(t, "eyJhbGci...[redacted]", tok.String())
	assert.Equal(t, "[redacted]", api.Token("short").String())
	assert.Len(t, tok.Segments(), 3)
	assert.Nil(t, api.Token("").Segments())
}

func TestTokenClaimsInvalid(t *testing.T) {
	_, err := api.Token("not-a-jwt").Claims()
	assert.Error(t, err)
}

func TestVehicleStatusDecoding(t *testing.T) {
	var v api.Vehicle
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":2}`), &v))
	assert.Equal(t, api.VehicleRented, v.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":"maintenance"}`), &v))
	assert.Equal(t, api.VehicleMaintenance, v.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"Stolen"}`), &v))
	assert.Equal(t, "Unknown", api.VehicleStatus(42).String())
}
