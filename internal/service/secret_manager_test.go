package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretVersionName(t *testing.T) {
	assert.Equal(t, "projects/edulearn/secrets/jwt-secret/versions/latest", secretVersionName("edulearn", "jwt-secret"))
	assert.Equal(t, "projects/other/secrets/s3/versions/latest", secretVersionName("edulearn", "projects/other/secrets/s3"))
	assert.Equal(t, "projects/other/secrets/s3/versions/4", secretVersionName("edulearn", "projects/other/secrets/s3/versions/4"))
}

func TestNewSecretManagerServiceRequiresProject(t *testing.T) {
	_, err := NewSecretManagerService(context.Background(), "", "")
	assert.Error(t, err)
}
