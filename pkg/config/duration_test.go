package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1.5h", 90 * time.Minute, false},
		{"90d", 90 * Day, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"", 0, false},
		{"invalid", 0, true},
		{"3y", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDuration_YAML(t *testing.T) {
	type ledger struct {
		Retention Duration `yaml:"retention"`
	}

	var cfg ledger
	if err := yaml.Unmarshal([]byte("retention: 2w\n"), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if time.Duration(cfg.Retention) != 14*Day {
		t.Errorf("Expected 336h, got %v", time.Duration(cfg.Retention))
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "retention: 14d\n" {
		t.Errorf("Marshal = %q", out)
	}

	out, err = yaml.Marshal(ledger{Retention: Duration(36 * time.Hour)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "retention: 36h0m0s\n" {
		t.Errorf("Marshal = %q", out)
	}
}
