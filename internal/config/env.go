package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/stockdash/taxengine/internal/domain"
)

// Environment variable names read by LoadSettings.
const (
	EnvFormat       = "TAXENGINE_FORMAT"
	EnvRulesFile    = "TAXENGINE_RULES"
	EnvCreditFactor = "TAXENGINE_CREDIT_FACTOR"
	EnvDebug        = "TAXENGINE_DEBUG"
)

// Settings are process-level defaults; command-line flags take precedence.
type Settings struct {
	Format       string
	RulesFile    string
	CreditFactor domain.CreditFactor
	Debug        bool
}

// LoadSettings reads defaults from the environment after loading the given .env files.
// Missing .env files are ignored; variables already set in the process win over file values.
func LoadSettings(envFiles ...string) (Settings, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := Settings{
		Format:    getEnvString(EnvFormat, "console"),
		RulesFile: os.Getenv(EnvRulesFile),
		Debug:     getEnvBool(EnvDebug, false),
	}
	cf, err := domain.ParseCreditFactor(os.Getenv(EnvCreditFactor))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", EnvCreditFactor, err)
	}
	s.CreditFactor = cf
	return s, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	}
	return defaultValue
}
