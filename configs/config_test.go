package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:4000")
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("STATUS_CHECK_GRACE", "not-a-duration")

	cfg := LoadConfig()

	assert.Equal(t, "http://backend:4000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2*time.Minute, cfg.StatusCheckGrace)
	assert.Equal(t, UploadTargetBackend, cfg.UploadTarget)
	assert.Equal(t, "3000", cfg.Port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{"complete", Config{BackendURL: "http://b", SecretKey: "s", UploadTarget: UploadTargetBackend}, false},
		{"missing backend", Config{SecretKey: "s", UploadTarget: UploadTargetBackend}, true},
		{"missing secret", Config{BackendURL: "http://b", UploadTarget: UploadTargetBackend}, true},
		{"unknown target", Config{BackendURL: "http://b", SecretKey: "s", UploadTarget: "gcs"}, true},
		{"client id without secret", Config{BackendURL: "http://b", SecretKey: "s", UploadTarget: UploadTargetBackend, BackendClientID: "id"}, true},
		{"r2 without bucket", Config{BackendURL: "http://b", SecretKey: "s", UploadTarget: UploadTargetR2}, true},
		{"r2 complete", Config{BackendURL: "http://b", SecretKey: "s", UploadTarget: UploadTargetR2,
			R2: R2{AccountID: "a", BucketName: "b", PublicURL: "https://cdn"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
