package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServer(t *testing.T) {
	t.Setenv("JOKE_API_BASE_URL", "https://jokes.example.com")
	t.Setenv("DEFAULT_JOKES_NUMBER", "25")
	t.Setenv("PORT", "8081")
	t.Setenv("JOKE_API_TIMEOUT", "3s")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() failed: %v", err)
	}

	if cfg.JokeAPIBaseURL != "https://jokes.example.com" {
		t.Errorf("Expected JokeAPIBaseURL 'https://jokes.example.com', got '%s'", cfg.JokeAPIBaseURL)
	}
	if cfg.DefaultJokesNum != 25 {
		t.Errorf("Expected DefaultJokesNum 25, got %d", cfg.DefaultJokesNum)
	}
	if cfg.Port != "8081" {
		t.Errorf("Expected Port '8081', got '%s'", cfg.Port)
	}
	if cfg.JokeAPITimeout != 3*time.Second {
		t.Errorf("Expected JokeAPITimeout 3s, got %v", cfg.JokeAPITimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("JOKE_API_BASE_URL", "https://jokes.example.com")
	_ = os.Unsetenv("DEFAULT_JOKES_NUMBER")
	_ = os.Unsetenv("PORT")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() failed: %v", err)
	}
	if cfg.DefaultJokesNum != 10 {
		t.Errorf("Expected default DefaultJokesNum 10, got %d", cfg.DefaultJokesNum)
	}
	if cfg.Port != "3000" {
		t.Errorf("Expected default Port '3000', got '%s'", cfg.Port)
	}
}

func TestLoadServerInvalid(t *testing.T) {
	t.Setenv("JOKE_API_BASE_URL", "")
	if _, err := LoadServer(); err == nil {
		t.Error("Expected error when JOKE_API_BASE_URL is missing")
	}

	t.Setenv("JOKE_API_BASE_URL", "https://jokes.example.com")
	t.Setenv("DEFAULT_JOKES_NUMBER", "many")
	if _, err := LoadServer(); err == nil {
		t.Error("Expected error for non-numeric DEFAULT_JOKES_NUMBER")
	}

	t.Setenv("DEFAULT_JOKES_NUMBER", "-3")
	if _, err := LoadServer(); err == nil {
		t.Error("Expected error for negative DEFAULT_JOKES_NUMBER")
	}
}

func TestLoadClient(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VITE_API_BASE_URL", "http://localhost:3000/api/jokes")
	t.Setenv("VITE_TOTAL_JOKES_NUMBER", "40")
	t.Setenv("JOKES_ERROR_POLICY", "swallow")
	t.Setenv("JOKES_STATE_DIR", dir)

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() failed: %v", err)
	}
	if cfg.TotalJokesNumber != 40 {
		t.Errorf("Expected TotalJokesNumber 40, got %d", cfg.TotalJokesNumber)
	}
	if cfg.ErrorPolicy != SwallowErrors {
		t.Errorf("Expected ErrorPolicy 'swallow', got '%s'", cfg.ErrorPolicy)
	}
	if cfg.StateDir != dir {
		t.Errorf("Expected StateDir %s, got %s", dir, cfg.StateDir)
	}
}

func TestLoadClientDefaultStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VITE_API_BASE_URL", "http://localhost:3000/api/jokes")
	t.Setenv("JOKES_STATE_DIR", "")
	_ = os.Unsetenv("JOKES_ERROR_POLICY")
	_ = os.Unsetenv("VITE_TOTAL_JOKES_NUMBER")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() failed: %v", err)
	}
	if want := filepath.Join(home, ".jokeshelf"); cfg.StateDir != want {
		t.Errorf("Expected StateDir %s, got %s", want, cfg.StateDir)
	}
	if cfg.ErrorPolicy != PropagateErrors {
		t.Errorf("Expected default ErrorPolicy 'propagate', got '%s'", cfg.ErrorPolicy)
	}
	if cfg.TotalJokesNumber != 10 {
		t.Errorf("Expected default TotalJokesNumber 10, got %d", cfg.TotalJokesNumber)
	}
}

func TestClientValidate(t *testing.T) {
	cfg := &Client{ErrorPolicy: PropagateErrors}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when VITE_API_BASE_URL is missing")
	}

	cfg = &Client{APIBaseURL: "http://x", ErrorPolicy: "explode"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown error policy")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	if err := LoadDotEnv(); err != nil {
		t.Errorf("LoadDotEnv() without a .env file should not fail: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("JOKESHELF_TEST_VAR=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Cleanup(func() { _ = os.Unsetenv("JOKESHELF_TEST_VAR") })

	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv("JOKESHELF_TEST_VAR"); got != "from-file" {
		t.Errorf("Expected JOKESHELF_TEST_VAR 'from-file', got '%s'", got)
	}
}

// chdir switches the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
