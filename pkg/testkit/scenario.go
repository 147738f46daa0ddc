// Package testkit runs JSON-scenario-driven REST API tests.
//
// Each scenario file describes the request to fire and what the response
// must contain:
//
//	{
//	  "name": "show product with malformed id",
//	  "requestMethod": "GET",
//	  "requestUrl": "/api/products/not-an-id",
//	  "expectedCode": 400,
//	  "expectedBody": {"status": 400, "message": "Invalid product ID format"}
//	}
//
// expectedBody is matched as a subset: only the keys it names are compared.
// "{{name}}" placeholders in the URL, body and headers are replaced from the
// Vars passed to Run, for ids created during test setup.
//
//	func TestScenarios(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata", testkit.Vars{"supplier_id": id})
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod string            `json:"requestMethod"`
	RequestURL    string            `json:"requestUrl"`
	RequestBody   json.RawMessage   `json:"requestBody"`
	Headers       map[string]string `json:"headers"`

	ExpectedCode int             `json:"expectedCode"`
	ExpectedBody json.RawMessage `json:"expectedBody"`
}

// Vars fills "{{key}}" placeholders.
type Vars map[string]string

func (v Vars) expand(s string) string {
	for k, val := range v {
		s = strings.ReplaceAll(s, "{{"+k+"}}", val)
	}
	return s
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// LoadAllFromDir loads every *.json file in dir as a Scenario, in file name
// order. Files that fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
