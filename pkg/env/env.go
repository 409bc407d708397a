package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// File returns the dotenv file path for this process, honoring an override.
func File() string {
	return Get("BRIGHTVOLT_ENV_FILE", ".env")
}
