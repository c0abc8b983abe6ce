package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines which sensitive settings each environment must provide
type ConfigRequirements struct {
	RequireJWTSecret  bool
	RequireDBPassword bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {RequireJWTSecret: true},
		Test:        {RequireJWTSecret: true},
		CI:          {RequireJWTSecret: true},
		Production:  {RequireJWTSecret: true, RequireDBPassword: true},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"}.Error())
	}

	if u, err := url.Parse(cfg.CatalogBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"CATALOG_BASE_URL", "must be an absolute URL"}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if reqs.RequireDBPassword && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"db_password", "is required"}.Error())
		}
	case "sqlite":
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if reqs.RequireJWTSecret && cfg.JWTSecret == "" {
		if env == Production {
			errs = append(errs, "jwt_secret secret is required")
		} else {
			errs = append(errs, "JWT_SECRET environment variable is required")
		}
	}

	d := cfg.Discovery
	if d.SampleSize <= 0 || d.QueryTokens <= 0 || d.ResultCap <= 0 || d.PerTokenLimit <= 0 || d.RecommendLimit <= 0 {
		errs = append(errs, ValidationError{"DISCOVERY_*", "limits must be positive"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
