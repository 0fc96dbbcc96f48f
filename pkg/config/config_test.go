package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RATE_LIMIT_RPM", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory || cfg.AuthMode != AuthJWT {
		t.Fatalf("development must default to memory store and jwt auth, got %s/%s", cfg.StoreBackend, cfg.AuthMode)
	}
	if cfg.RatingsBackend != BackendDefault || cfg.RateLimitPerMinute != 30 || cfg.MongoDatabase != "linkup" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadProductionDefaultsAndOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")
	t.Setenv("PORT", "9000")

	cfg := Load()
	if cfg.StoreBackend != BackendFirestore || cfg.AuthMode != AuthFirebase {
		t.Fatalf("production must default to firestore and firebase auth, got %s/%s", cfg.StoreBackend, cfg.AuthMode)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Fatalf("invalid RATE_LIMIT_RPM must fall back to 30, got %d", cfg.RateLimitPerMinute)
	}
}

func TestValidateRejectsDefaultJWTSecretOutsideDevelopment(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"production jwt default secret", Config{Env: "production", AuthMode: AuthJWT, JWTSecret: DefaultJWTSecret}, true},
		{"production jwt custom secret", Config{Env: "production", AuthMode: AuthJWT, JWTSecret: "rotated"}, false},
		{"production firebase", Config{Env: "production", AuthMode: AuthFirebase, JWTSecret: DefaultJWTSecret}, false},
		{"development jwt default secret", Config{Env: "development", AuthMode: AuthJWT, JWTSecret: DefaultJWTSecret}, false},
		{"test jwt default secret", Config{Env: "test", AuthMode: AuthJWT, JWTSecret: DefaultJWTSecret}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadedProductionJWTConfigFailsValidation(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_MODE", AuthJWT)
	t.Setenv("JWT_SECRET", "")

	if err := Load().Validate(); err == nil {
		t.Fatal("expected the default JWT secret to be rejected in production")
	}
}
