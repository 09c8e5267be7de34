package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rushail101/gst-invoice/pkg/utils"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
	Seller   SellerConfig   `mapstructure:"seller"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds record store configuration.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// InvoiceConfig holds invoice numbering configuration.
type InvoiceConfig struct {
	NumberPrefix        string        `mapstructure:"number_prefix"`
	NumberWidth         int           `mapstructure:"number_width"`
	SequencerMaxRetries int           `mapstructure:"sequencer_max_retries"`
	SequencerRetryDelay time.Duration `mapstructure:"sequencer_retry_delay"`
}

// SellerConfig is the issuing business profile stamped onto every
// invoice.
type SellerConfig struct {
	Name    string `mapstructure:"name"`
	State   string `mapstructure:"state"`
	GSTIN   string `mapstructure:"gstin"`
	Address string `mapstructure:"address"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/invoices.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("invoice.number_prefix", "INV-")
	viper.SetDefault("invoice.number_width", 5)
	viper.SetDefault("invoice.sequencer_max_retries", 3)
	viper.SetDefault("invoice.sequencer_retry_delay", 50*time.Millisecond)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration.
func bindEnvVars() {
	viper.BindEnv("seller.name", "SELLER_NAME")
	viper.BindEnv("seller.state", "SELLER_STATE")
	viper.BindEnv("seller.gstin", "SELLER_GSTIN")
	viper.BindEnv("seller.address", "SELLER_ADDRESS")
	viper.BindEnv("database.path", "DATABASE_PATH")
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Seller.Name == "" {
		return fmt.Errorf("seller name is required")
	}
	if c.Seller.State == "" {
		return fmt.Errorf("seller state is required")
	}
	if c.Seller.GSTIN != "" {
		if err := utils.ValidateGSTIN(c.Seller.GSTIN); err != nil {
			return fmt.Errorf("invalid seller gstin: %w", err)
		}
	}
	return nil
}
