package contracts

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/carrental-io/carrental-qa/internal/api"
	"github.com/carrental-io/carrental-qa/internal/config"
)

// AuthContracts covers login against the credentials of a seeded admin. A 401 on the
// valid login is tolerated while the account has not been seeded.
func AuthContracts(admin config.Credentials) []Contract {
	invalid := Expected{
		Statuses: []int{http.StatusBadRequest, http.StatusUnauthorized},
	}
	return []Contract{
		{
			Name:        "TC011_login_valid_credentials_returns_token",
			Description: "Login with valid credentials returns a JWT",
			Method:      http.MethodPost,
			Path:        api.LoginPath,
			Body:        api.LoginRequest{Username: admin.Username, Password: admin.Password},
			Expected: Expected{
				Statuses: []int{http.StatusOK, http.StatusUnauthorized},
				Validations: map[int][]Validation{
					http.StatusOK: {IsAuthResponse(), HasFields("token", "username", "email")},
				},
			},
		},
		{
			Name:        "TC012_login_invalid_password_returns_unauthorized",
			Description: "Login with a wrong password is rejected",
			Method:      http.MethodPost,
			Path:        api.LoginPath,
			Body:        api.LoginRequest{Username: admin.Username, Password: "WrongPassword123!"},
			Expected:    Expected{Statuses: []int{http.StatusUnauthorized}},
		},
		{
			Name:     "TC013_login_empty_username",
			Method:   http.MethodPost,
			Path:     api.LoginPath,
			Body:     api.LoginRequest{Username: "", Password: "password123"},
			Expected: invalid,
		},
		{
			Name:     "TC013_login_empty_password",
			Method:   http.MethodPost,
			Path:     api.LoginPath,
			Body:     api.LoginRequest{Username: "invaliduser", Password: ""},
			Expected: invalid,
		},
		{
			Name:     "TC013_login_unknown_user",
			Method:   http.MethodPost,
			Path:     api.LoginPath,
			Body:     api.LoginRequest{Username: "nonexistentuser", Password: "SomePassword123"},
			Expected: invalid,
		},
	}
}

// VehicleContracts covers the catalogue endpoints. Anonymous calls may be refused
// with 401 when the backend protects them; a known-missing id must never be 200.
func VehicleContracts() []Contract {
	list := map[int][]Validation{http.StatusOK: {IsArray(), IsVehicleList()}}
	return []Contract{
		{
			Name:        "TC018_get_all_vehicles",
			Description: "GET /api/vehicles returns a list or requires auth",
			Method:      http.MethodGet,
			Path:        api.VehiclesPath,
			Expected:    Expected{Statuses: []int{http.StatusOK, http.StatusUnauthorized}, Validations: list},
		},
		{
			Name:        "TC019_get_vehicle_by_id_existing",
			Description: "GET /api/vehicles/1 finds the vehicle, requires auth, or the fleet is empty",
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("%s/%d", api.VehiclesPath, 1),
			Expected: Expected{
				Statuses:    []int{http.StatusOK, http.StatusUnauthorized, http.StatusNotFound},
				Validations: map[int][]Validation{http.StatusOK: {HasVehicleID(1)}},
			},
		},
		{
			Name:        "TC020_get_vehicle_by_id_nonexisting",
			Description: "GET /api/vehicles/99999 is never a success",
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("%s/%d", api.VehiclesPath, 99999),
			Expected:    Expected{Statuses: []int{http.StatusUnauthorized, http.StatusNotFound}},
		},
		{
			Name:          "TC021_get_vehicles_with_auth_token",
			Description:   "GET /api/vehicles with a bearer token returns the list",
			Method:        http.MethodGet,
			Path:          api.VehiclesPath,
			Authenticated: true,
			Expected:      Expected{Statuses: []int{http.StatusOK}, Validations: list},
		},
		{
			Name:        "TC022_search_vehicles_by_query",
			Description: "GET /api/vehicles?search=car is accepted",
			Method:      http.MethodGet,
			Path:        api.VehiclesPath,
			Query:       url.Values{"search": {"car"}},
			Expected:    Expected{Statuses: []int{http.StatusOK, http.StatusUnauthorized}, Validations: list},
		},
	}
}
