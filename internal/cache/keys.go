package cache

import "strings"

const (
	GlobalKeyPrefix = "quizdigest"
)

// GenerateCacheKey builds "quizdigest:<service>:<object>:<id>", appending
// paramsKey joined by "_" as a final segment when present.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}
