package config

import "testing"

func TestRPCTimeoutDerivesFromSeconds(t *testing.T) {
	c := Config{RPCTimeoutSeconds: 15}
	if got := c.RPCTimeout().Seconds(); got != 15 {
		t.Fatalf("RPCTimeout() = %v seconds, want 15", got)
	}
}

func TestLoadFromEnvDoesNotErrorWithoutConfigFile(t *testing.T) {
	if _, err := LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if AppConfig.Endpoint == "" {
		t.Fatal("expected a default endpoint to remain set")
	}
}
