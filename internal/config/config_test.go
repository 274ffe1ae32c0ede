package config

import "testing"

func TestLoadIncludesMemoryStoreDefaults(t *testing.T) {
	t.Setenv("MEMORY_BACKEND", "")
	t.Setenv("MEMORY_STORE_PATH", "")
	t.Setenv("REFERENCE_DATA_PATH", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.MemoryBackend != "postgres" {
		t.Fatalf("expected default memory backend postgres, got %q", cfg.MemoryBackend)
	}
	if cfg.MemoryStorePath != "./data/vendor_memory.yaml" {
		t.Fatalf("expected default memory store path, got %q", cfg.MemoryStorePath)
	}
	if cfg.ReferenceDataPath != "./data/reference.yaml" {
		t.Fatalf("expected default reference data path, got %q", cfg.ReferenceDataPath)
	}
	if cfg.NATSSubject != "invoices.received" {
		t.Fatalf("expected default nats subject invoices.received, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesTrafficControlOverrides(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "5")
	t.Setenv("API_RATE_LIMIT_BURST", "10")
	t.Setenv("API_MAX_INFLIGHT", "2")
	t.Setenv("API_INFLIGHT_WAIT_MS", "50")
	t.Setenv("REVIEW_REPORT_ENABLED", "true")

	cfg := Load()
	if cfg.APIRateLimitRPS != 5 {
		t.Fatalf("expected rate limit rps 5, got %d", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 10 {
		t.Fatalf("expected rate limit burst 10, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.APIMaxInflight != 2 {
		t.Fatalf("expected max inflight 2, got %d", cfg.APIMaxInflight)
	}
	if cfg.APIInflightWaitMS != 50 {
		t.Fatalf("expected inflight wait 50ms, got %d", cfg.APIInflightWaitMS)
	}
	if !cfg.ReviewReportEnabled {
		t.Fatalf("expected review report enabled override")
	}
}

func TestLoadFallsBackOnMalformedInt(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()
	if cfg.APIRateLimitRPS != 50 {
		t.Fatalf("expected fallback rps 50 for malformed value, got %d", cfg.APIRateLimitRPS)
	}
}
