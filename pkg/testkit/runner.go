package testkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Run executes one scenario against handler as a subtest.
func Run(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s, vars)
	})
}

// RunDir runs every scenario in dir as a subtest. Files that fail to load
// are reported as failures.
func RunDir(t *testing.T, handler http.Handler, dir string, vars Vars) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		Run(t, handler, s, vars)
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	var body io.Reader = http.NoBody
	if len(s.RequestBody) > 0 {
		body = strings.NewReader(vars.expand(string(s.RequestBody)))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), vars.expand(s.RequestURL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.String())
	if len(s.ExpectedBody) > 0 {
		AssertJSONSubset(t, s, []byte(vars.expand(string(s.ExpectedBody))), rec.Body.Bytes())
	}
}
