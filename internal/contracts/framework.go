// Package contracts describes rental API contracts as data and runs them as subtests
// against any reachable backend.
package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/carrental-io/carrental-qa/internal/api"
)

// DefaultTimeout bounds a single contract request.
const DefaultTimeout = 10 * time.Second

// Contract defines an API contract to be tested
type Contract struct {
	Name          string
	Description   string
	Method        string
	Path          string
	Query         url.Values
	Body          any
	Authenticated bool
	Expected      Expected
}

// Expected lists the acceptable statuses. Validations run only for the status
// they are keyed by, since the body shape depends on it.
type Expected struct {
	Statuses    []int
	Validations map[int][]Validation
}

// Validation is a custom check of a response.
type Validation func(resp *api.Response) error

// ContractTest runs contracts with an anonymous client and, for Authenticated
// contracts, a client carrying a token.
type ContractTest struct {
	t         *testing.T
	anonymous *api.Client
	authed    *api.Client
	contracts []Contract
}

// NewContractTest creates a new contract test runner. authed may be nil, in which
// case authenticated contracts are skipped.
func NewContractTest(t *testing.T, anonymous, authed *api.Client) *ContractTest {
	return &ContractTest{
		t:         t,
		anonymous: anonymous,
		authed:    authed,
	}
}

// AddContract adds contracts to test
func (ct *ContractTest) AddContract(contracts ...Contract) {
	ct.contracts = append(ct.contracts, contracts...)
}

// Run executes all contract tests
func (ct *ContractTest) Run() {
	for _, contract := range ct.contracts {
		ct.t.Run(contract.Name, func(t *testing.T) {
			ct.runContract(t, contract)
		})
	}
}

func (ct *ContractTest) runContract(t *testing.T, contract Contract) {
	client := ct.anonymous
	if contract.Authenticated {
		if ct.authed == nil || !ct.authed.HasToken() {
			t.Skip("no auth token available")
		}
		client = ct.authed
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	resp, err := client.Do(ctx, contract.Method, contract.Path, contract.Body, contract.Query)
	if err != nil {
		if api.IsTransportError(err) {
			t.Skipf("API unavailable: %v", err)
		}
		t.Fatalf("Request failed: %v", err)
	}

	if !resp.StatusIn(contract.Expected.Statuses...) {
		t.Errorf("Status code mismatch: expected one of %v, got %d: %s", contract.Expected.Statuses, resp.StatusCode, resp.Text())
		return
	}

	for _, validation := range contract.Expected.Validations[resp.StatusCode] {
		if err := validation(resp); err != nil {
			t.Errorf("Validation failed: %v", err)
		}
	}
}

// HasFields checks that a JSON object body contains every field.
func HasFields(fields ...string) Validation {
	return func(resp *api.Response) error {
		var data map[string]any
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return err
		}
		for _, field := range fields {
			if _, ok := data[field]; !ok {
				return fmt.Errorf("missing field: %s", field)
			}
		}
		return nil
	}
}

// IsArray checks that the body is a JSON array.
func IsArray() Validation {
	return func(resp *api.Response) error {
		var data []any
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return fmt.Errorf("expected array: %w", err)
		}
		return nil
	}
}

// IsErrorResponse checks that the body carries a message or errors.
func IsErrorResponse() Validation {
	return api.ValidateErrorBody
}

// IsAuthResponse checks the login/register body and that its token is a JWT.
func IsAuthResponse() Validation {
	return func(resp *api.Response) error {
		if err := api.ValidateAuthResponse(resp); err != nil {
			return err
		}
		auth, err := api.Decode[api.AuthResponse](resp)
		if err != nil {
			return err
		}
		if n := len(api.Token(auth.Token).Segments()); n != 3 {
			return fmt.Errorf("token has %d segments, want 3", n)
		}
		return nil
	}
}

// IsVehicleList checks the vehicle list contract.
func IsVehicleList() Validation {
	return api.ValidateVehicleList
}

// HasVehicleID checks that a single-vehicle body carries id.
func HasVehicleID(id int) Validation {
	return func(resp *api.Response) error {
		v, err := api.Decode[api.Vehicle](resp)
		if err != nil {
			return err
		}
		if v.ID != id {
			return fmt.Errorf("vehicle id %d, want %d", v.ID, id)
		}
		return nil
	}
}
