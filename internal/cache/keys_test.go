package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "generation",
			objectType:  "ratelimit",
			identifier:  "user_1",
			expectedKey: "quizdigest:generation:ratelimit:user_1",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "generation",
			objectType:  "ratelimit",
			identifier:  "user_1",
			paramsKey:   []string{},
			expectedKey: "quizdigest:generation:ratelimit:user_1",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "generation",
			objectType:  "ratelimit",
			identifier:  "user_1",
			paramsKey:   []string{"hourly", "v2"},
			expectedKey: "quizdigest:generation:ratelimit:user_1:hourly_v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			assert.Equal(t, tt.expectedKey, got)
		})
	}
}
