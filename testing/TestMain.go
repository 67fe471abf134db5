package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

// defaults let app.LoadConfig succeed inside binaries under test.
var defaults = map[string]string{
	"CONSOLE_TEST_MODE": "1",
	"SESSION_SECRET":    "test-session-secret",
	"CSRF_SECRET":       "test-csrf-secret",
	"DIRECTORY_URL":     "http://127.0.0.1:0/api/v1",
}

func ensureTestMode() {
	once.Do(func() {
		for key, value := range defaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
