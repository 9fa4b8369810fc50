package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnvFiles fills unset or blank variables from each file in order, so
// earlier files win over later ones and the real environment wins over both.
func loadDotEnvFiles(paths ...string) error {
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		for key, value := range values {
			if existing, ok := os.LookupEnv(key); ok && strings.TrimSpace(existing) != "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}
