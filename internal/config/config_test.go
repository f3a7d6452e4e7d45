package config

import (
	"os"
	"reflect"
	"testing"
)

// chdir changes into dir for the duration of the test (t.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadAppliesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("UPLOAD_URL_PATH", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.UploadURLPath != "/static/uploads" {
		t.Fatalf("unexpected upload url path %q", cfg.UploadURLPath)
	}
	if cfg.MaxUploadBytes != 20<<20 {
		t.Fatalf("unexpected max upload bytes %d", cfg.MaxUploadBytes)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_DRIVER", " Postgres ")
	t.Setenv("UPLOAD_URL_PATH", "files/")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, ,https://www.example.com")
	t.Setenv("SUPER_ROOT_USER_NAME", "  root ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen addr derived from port, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.UploadURLPath != "/files" {
		t.Fatalf("expected normalized upload path, got %q", cfg.UploadURLPath)
	}
	want := []string{"https://admin.example.com", "https://www.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
	if cfg.SuperRootUserName != "root" {
		t.Fatalf("expected trimmed user name, got %q", cfg.SuperRootUserName)
	}
}
