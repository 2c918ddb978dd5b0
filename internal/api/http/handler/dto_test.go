package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     credentialsRequest
		wantErr error
	}{
		{"valid", credentialsRequest{Email: "user@example.com", Password: "password123"}, nil},
		{"empty email", credentialsRequest{Email: "", Password: "password123"}, errInvalidEmail},
		{"no at sign", credentialsRequest{Email: "user.example.com", Password: "password123"}, errInvalidEmail},
		{"short password", credentialsRequest{Email: "user@example.com", Password: "short"}, errWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
