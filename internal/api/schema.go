package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Response contracts. Only the fields the suites depend on are required.
var (
	authResponseSchema = gojsonschema.NewStringLoader(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Auth response",
		"type": "object",
		"required": ["token", "username", "email"],
		"properties": {
			"token": {"type": "string", "pattern": "^[^.]+\\.[^.]+\\.[^.]+$"},
			"username": {"type": "string"},
			"email": {"type": "string"},
			"role": {"type": "string"}
		}
	}`)

	vehicleListSchema = gojsonschema.NewStringLoader(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Vehicle list",
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "brand", "model"],
			"properties": {
				"id": {"type": "integer"},
				"brand": {"type": "string"},
				"model": {"type": "string"},
				"year": {"type": "integer"},
				"dailyRate": {"type": "number"},
				"status": {"type": ["integer", "string"]}
			}
		}
	}`)

	errorBodySchema = gojsonschema.NewStringLoader(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Error body",
		"type": "object",
		"anyOf": [{"required": ["message"]}, {"required": ["errors"]}]
	}`)
)

// SchemaError lists every contract violation found in a body.
type SchemaError struct {
	Schema   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match contract: %s", e.Schema, strings.Join(e.Problems, "; "))
}

// ValidateAuthResponse checks a login or register body.
func ValidateAuthResponse(resp *Response) error {
	return validate("auth response", authResponseSchema, resp)
}

// ValidateVehicleList checks a vehicle list body.
func ValidateVehicleList(resp *Response) error {
	return validate("vehicle list", vehicleListSchema, resp)
}

// ValidateErrorBody checks that an error body carries a message or errors.
func ValidateErrorBody(resp *Response) error {
	return validate("error body", errorBodySchema, resp)
}

func validate(name string, schema gojsonschema.JSONLoader, resp *Response) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(resp.Body))
	if err != nil {
		return &SchemaError{Schema: name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return &SchemaError{Schema: name, Problems: problems}
}
