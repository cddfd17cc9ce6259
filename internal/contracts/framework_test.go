package contracts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/api"
	"github.com/carrental-io/carrental-qa/internal/api/apitest"
	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/contracts"
	"github.com/carrental-io/carrental-qa/internal/opt"
)

var admin = config.Credentials{Username: "admin", Password: "Admin@123"}

func TestCatalogsAgainstStub(t *testing.T) {
	b := apitest.NewBackend(t)
	anon := api.BuildClient(b.URL, opt.None[api.Token]())
	authed := api.BuildClient(b.URL, api.Authenticate(context.Background(), b.URL, admin))
	require.True(t, authed.HasToken())

	ct := contracts.NewContractTest(t, anon, authed)
	ct.AddContract(contracts.AuthContracts(admin)...)
	ct.AddContract(contracts.VehicleContracts()...)
	ct.Run()
}

func TestCatalogsAgainstProtectedStub(t *testing.T) {
	b := apitest.NewBackend(t)
	b.RequireAuth.Store(true)
	anon := api.BuildClient(b.URL, opt.None[api.Token]())
	authed := api.BuildClient(b.URL, api.Authenticate(context.Background(), b.URL, admin))

	ct := contracts.NewContractTest(t, anon, authed)
	ct.AddContract(contracts.VehicleContracts()...)
	ct.Run()
}

func TestAuthenticatedContractSkipsWithoutToken(t *testing.T) {
	b := apitest.NewBackend(t)
	anon := api.BuildClient(b.URL, opt.None[api.Token]())

	ct := contracts.NewContractTest(t, anon, nil)
	ct.AddContract(contracts.Contract{
		Name:          "needs_token",
		Method:        http.MethodGet,
		Path:          api.VehiclesPath,
		Authenticated: true,
		Expected:      contracts.Expected{Statuses: []int{http.StatusOK}},
	})
	ct.Run()
	assert.Equal(t, int64(0), b.Requests(), "skipped before any request")
}

func TestValidations(t *testing.T) {
	vehicle := &api.Response{StatusCode: http.StatusOK, Body: []byte(`{"id":3,"brand":"Renault","model":"Clio"}`)}
	assert.NoError(t, contracts.HasFields("id", "brand")(vehicle))
	assert.EqualError(t, contracts.HasFields("token")(vehicle), "missing field: token")
	assert.NoError(t, contracts.HasVehicleID(3)(vehicle))
	assert.Error(t, contracts.HasVehicleID(1)(vehicle))
	assert.Error(t, contracts.IsArray()(vehicle))

	list := &api.Response{StatusCode: http.StatusOK, Body: []byte(`[{"id":1,"brand":"Toyota","model":"Corolla"}]`)}
	assert.NoError(t, contracts.IsArray()(list))
	assert.NoError(t, contracts.IsVehicleList()(list))

	errBody := &api.Response{StatusCode: http.StatusBadRequest, Body: []byte(`{"message":"Username already exists"}`)}
	assert.NoError(t, contracts.IsErrorResponse()(errBody))
	assert.Error(t, contracts.IsErrorResponse()(list))

	badToken := &api.Response{StatusCode: http.StatusOK, Body: []byte(`{"token":"a.b.c.d","username":"x","email":"y"}`)}
	assert.Error(t, contracts.IsAuthResponse()(badToken))
}
