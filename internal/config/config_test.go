package config

import "testing"

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RABBITMQ_URL", "amqp://localhost:5672")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_RequiresRabbitMQURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/habits")
	t.Setenv("RABBITMQ_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when RABBITMQ_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/habits")
	t.Setenv("RABBITMQ_URL", "amqp://localhost:5672")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("RABBITMQ_PREFETCH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q, want default", cfg.RedisURL)
	}
	if cfg.RabbitMQPrefetch != 1 {
		t.Errorf("RabbitMQPrefetch = %d, want 1", cfg.RabbitMQPrefetch)
	}
}

func TestLoad_AIEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/habits")
	t.Setenv("RABBITMQ_URL", "amqp://localhost:5672")

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"with key", "sk-test", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.key)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			if got := cfg.AIEnabled(); got != tt.want {
				t.Errorf("AIEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes", "yes", false, true},
		{"false", "false", true, false},
		{"empty uses default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_KEY", tt.value)
			if got := getEnvBool("TEST_BOOL_KEY", tt.def); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}
