// Package testing puts the console into test mode for any test binary that
// imports it for side effects. The backend URL is pointed at a closed port so
// a stray call fails fast instead of reaching a real users API.
package testing

import (
	"os"
	stdtesting "testing"
)

var testEnv = map[string]string{
	"CONSOLE_TEST_MODE": "1",
	"BACKEND_URL":       "http://127.0.0.1:0",
}

func init() {
	for key, value := range testEnv {
		if _, set := os.LookupEnv(key); !set {
			_ = os.Setenv(key, value)
		}
	}
}

// TestMain runs the package's tests with the test environment applied.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
