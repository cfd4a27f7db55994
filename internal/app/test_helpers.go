package app

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. Logs are
// printed on cleanup when PINGRAPH_TEST_LOGS is "true".
func SetupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer) {
	t.Helper()

	if cfg.FPS == 0 {
		cfg.FPS = 240
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	cfg.LogLevel = "debug"
	valid, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	logBuffer := &SafeBuffer{}
	testApp := NewApp(logBuffer, valid, nil)

	t.Cleanup(func() {
		if os.Getenv("PINGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
