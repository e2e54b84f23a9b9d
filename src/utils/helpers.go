package utils

import (
	"fmt"
	"os"
)

// WithSuffix appends the deployment environment to a queue or topic name so
// environments sharing a broker do not consume each other's messages.
func WithSuffix(name string) string {
	env := os.Getenv("API_ENV")
	if env == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, env)
}
