// Package config loads the backend configuration from the environment
// and an optional app.env file.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// OverspendPolicy controls what happens when an expenditure would push
// an allocation past its allocated amount.
type OverspendPolicy string

const (
	OverspendDisallow OverspendPolicy = "disallow"
	OverspendWarn     OverspendPolicy = "warn"
	OverspendAllow    OverspendPolicy = "allow"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	// DSN for postgres. When empty, a local sqlite database is used.
	DSN string
}

type AuthConfig struct {
	AccessSecret string
}

type BudgetConfig struct {
	OverspendPolicy OverspendPolicy
	// Maximum bill amount a vice principal may approve, in rupees.
	VPApprovalCeiling decimal.Decimal
	// Utilization ratio at which the exhaustion notification fires.
	ExhaustionThreshold decimal.Decimal
}

type NotifyConfig struct {
	// Glob patterns for event names that are dispatched, e.g.
	// "expenditure.*". Defaults to all events.
	EventPatterns []string
}

type Config struct {
	Environment      string
	HTTP             HTTPConfig
	DB               DBConfig
	Auth             AuthConfig
	Budget           BudgetConfig
	Notify           NotifyConfig
	CORSAllowOrigins []string
	EnablePprof      bool
}

// Load reads the configuration. Environment variables take precedence
// over the app.env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("BUDGET_OVERSPEND_POLICY", string(OverspendDisallow))
	v.SetDefault("VP_APPROVAL_CEILING", "50000")
	v.SetDefault("BUDGET_EXHAUSTION_THRESHOLD", "0.9")
	v.SetDefault("NOTIFY_EVENT_PATTERNS", "*")

	ceiling, err := decimal.NewFromString(v.GetString("VP_APPROVAL_CEILING"))
	if err != nil {
		return nil, fmt.Errorf("VP_APPROVAL_CEILING is not a valid amount: %w", err)
	}

	threshold, err := decimal.NewFromString(v.GetString("BUDGET_EXHAUSTION_THRESHOLD"))
	if err != nil {
		return nil, fmt.Errorf("BUDGET_EXHAUSTION_THRESHOLD is not a valid ratio: %w", err)
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN: v.GetString("DB_DSN"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Budget: BudgetConfig{
			OverspendPolicy:     OverspendPolicy(v.GetString("BUDGET_OVERSPEND_POLICY")),
			VPApprovalCeiling:   ceiling,
			ExhaustionThreshold: threshold,
		},
		Notify: NotifyConfig{
			EventPatterns: parseList(v.GetString("NOTIFY_EVENT_PATTERNS")),
		},
		CORSAllowOrigins: parseList(v.GetString("CORS_ALLOW_ORIGINS")),
		EnablePprof:      v.GetBool("ENABLE_PPROF"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Budget.OverspendPolicy {
	case OverspendDisallow, OverspendWarn, OverspendAllow:
	default:
		return fmt.Errorf("BUDGET_OVERSPEND_POLICY must be one of disallow, warn, allow, got %q", cfg.Budget.OverspendPolicy)
	}

	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	if cfg.Budget.VPApprovalCeiling.IsNegative() {
		return fmt.Errorf("VP_APPROVAL_CEILING must not be negative")
	}

	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
