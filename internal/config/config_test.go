package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr = %s, want :8080", cfg.HTTP.Addr)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("db driver = %s, want postgres", cfg.DB.Driver)
	}
	if cfg.Matching.CandidateLimit != 50 {
		t.Errorf("candidate limit = %d, want 50", cfg.Matching.CandidateLimit)
	}
	if cfg.Pricing.BaseFare != 100 || cfg.Pricing.PerKmRate != 15 {
		t.Errorf("pricing defaults = %f / %f, want 100 / 15", cfg.Pricing.BaseFare, cfg.Pricing.PerKmRate)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SKYPOOL_HTTP__ADDR", ":9999")
	t.Setenv("SKYPOOL_DB__DRIVER", "memory")
	t.Setenv("SKYPOOL_MATCHING__CANDIDATE_LIMIT", "10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("http addr = %s, want :9999", cfg.HTTP.Addr)
	}
	if cfg.DB.Driver != "memory" {
		t.Errorf("db driver = %s, want memory", cfg.DB.Driver)
	}
	if cfg.Matching.CandidateLimit != 10 {
		t.Errorf("candidate limit = %d, want 10", cfg.Matching.CandidateLimit)
	}
}
