package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RunAddress  string
	DatabaseURI string

	MerchantID string

	ComplianceAddress       string
	PayoutAddress           string
	IdentityAddress         string
	TreasuryAddress         string
	FinancialAccountAddress string

	PollInterval time.Duration
	SessionTTL   time.Duration

	JWTSecret string
}

// NewConfig layers configuration sources: YAML file, then flags, then
// environment variables, with hard defaults last.
func NewConfig() *Config {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cfg Config
	var configFile string

	flag.StringVar(&configFile, "c", "", "Path to YAML config file")
	flag.StringVar(&cfg.RunAddress, "a", "", "Server run address")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "Database URI")
	flag.StringVar(&cfg.MerchantID, "m", "", "Merchant account ID to track")
	flag.StringVar(&cfg.ComplianceAddress, "compliance", "", "Compliance service address")
	flag.StringVar(&cfg.PayoutAddress, "payout", "", "Payout-account service address")
	flag.StringVar(&cfg.IdentityAddress, "identity", "", "Identity-verification service address")
	flag.StringVar(&cfg.TreasuryAddress, "treasury", "", "Treasury service address")
	flag.StringVar(&cfg.FinancialAccountAddress, "finaccount", "", "Financial-account service address")
	flag.DurationVar(&cfg.PollInterval, "p", 0, "Signal poll interval")
	flag.Parse()

	if configFile != "" {
		cfg.applyFile(configFile)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg
}

// fileConfig mirrors Config for YAML decoding; durations are strings in
// the file ("15s", "24h").
type fileConfig struct {
	RunAddress  string `yaml:"run_address"`
	DatabaseURI string `yaml:"database_uri"`

	MerchantID string `yaml:"merchant_id"`

	ComplianceAddress       string `yaml:"compliance_address"`
	PayoutAddress           string `yaml:"payout_address"`
	IdentityAddress         string `yaml:"identity_address"`
	TreasuryAddress         string `yaml:"treasury_address"`
	FinancialAccountAddress string `yaml:"financial_account_address"`

	PollInterval string `yaml:"poll_interval"`
	SessionTTL   string `yaml:"session_ttl"`

	JWTSecret string `yaml:"jwt_secret"`
}

// applyFile fills fields the flags left empty from a YAML file.
func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	setIfEmpty(&c.RunAddress, fileCfg.RunAddress)
	setIfEmpty(&c.DatabaseURI, fileCfg.DatabaseURI)
	setIfEmpty(&c.MerchantID, fileCfg.MerchantID)
	setIfEmpty(&c.ComplianceAddress, fileCfg.ComplianceAddress)
	setIfEmpty(&c.PayoutAddress, fileCfg.PayoutAddress)
	setIfEmpty(&c.IdentityAddress, fileCfg.IdentityAddress)
	setIfEmpty(&c.TreasuryAddress, fileCfg.TreasuryAddress)
	setIfEmpty(&c.FinancialAccountAddress, fileCfg.FinancialAccountAddress)
	setIfEmpty(&c.JWTSecret, fileCfg.JWTSecret)
	if c.PollInterval == 0 {
		if d, err := time.ParseDuration(fileCfg.PollInterval); err == nil {
			c.PollInterval = d
		}
	}
	if c.SessionTTL == 0 {
		if d, err := time.ParseDuration(fileCfg.SessionTTL); err == nil {
			c.SessionTTL = d
		}
	}
}

func (c *Config) applyEnv() {
	overrideString(&c.RunAddress, "RUN_ADDRESS")
	overrideString(&c.DatabaseURI, "DATABASE_URI")
	overrideString(&c.MerchantID, "MERCHANT_ID")
	overrideString(&c.ComplianceAddress, "COMPLIANCE_ADDRESS")
	overrideString(&c.PayoutAddress, "PAYOUT_ADDRESS")
	overrideString(&c.IdentityAddress, "IDENTITY_ADDRESS")
	overrideString(&c.TreasuryAddress, "TREASURY_ADDRESS")
	overrideString(&c.FinancialAccountAddress, "FINANCIAL_ACCOUNT_ADDRESS")
	overrideString(&c.JWTSecret, "JWT_SECRET")
	overrideDuration(&c.PollInterval, "POLL_INTERVAL")
	overrideDuration(&c.SessionTTL, "SESSION_TTL")
}

func (c *Config) applyDefaults() {
	if c.RunAddress == "" {
		c.RunAddress = ":8080"
	}
	if c.PollInterval == 0 {
		c.PollInterval = 15 * time.Second
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
