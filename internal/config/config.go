package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/og-claim/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// RedisConfig holds Redis configuration for the shared rate limit store
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// NetworkConfig holds the target chain configuration
type NetworkConfig struct {
	Name            domain.Network `mapstructure:"name"`
	RPCURL          string         `mapstructure:"rpc_url"`
	ContractAddress string         `mapstructure:"contract_address"`
}

// WhitelistServiceConfig holds the whitelisting service configuration
type WhitelistServiceConfig struct {
	URL               string  `mapstructure:"url"`
	APIKey            string  `mapstructure:"api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	// TLS sends HSTS on every response; set when TLS terminates in front of the server
	TLS bool `mapstructure:"tls"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTSecret verifies HMAC-signed session tokens issued by the identity provider
	JWTSecret string `mapstructure:"jwt_secret"`
	// JWTPublicKey verifies RSA-signed session tokens (PEM)
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	JWTAudience  string   `mapstructure:"jwt_audience"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// RateLimitPolicy is a fixed window request allowance
type RateLimitPolicy struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// RateLimitConfig holds per-route rate limit policies
type RateLimitConfig struct {
	// Backend is "memory" or "redis"
	Backend         string          `mapstructure:"backend"`
	SweepInterval   time.Duration   `mapstructure:"sweep_interval"`
	Eligibility     RateLimitPolicy `mapstructure:"eligibility"`
	Whitelist       RateLimitPolicy `mapstructure:"whitelist"`
	WhitelistStatus RateLimitPolicy `mapstructure:"whitelist_status"`
	Claim           RateLimitPolicy `mapstructure:"claim"`
	Token           RateLimitPolicy `mapstructure:"token"`
}

// SignatureConfig holds wallet signature challenge configuration
type SignatureConfig struct {
	MaxAge  time.Duration `mapstructure:"max_age"`
	Purpose string        `mapstructure:"purpose"`
}

// TimeoutConfig holds upstream call timeouts
type TimeoutConfig struct {
	Read      time.Duration `mapstructure:"read"`
	Write     time.Duration `mapstructure:"write"`
	Whitelist time.Duration `mapstructure:"whitelist"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize int `mapstructure:"pool_size"`
	BatchSize      int `mapstructure:"batch_size"`
}

// APIConfig holds configuration for the claim API server
type APIConfig struct {
	BaseConfig       `mapstructure:",squash"`
	Server           ServerConfig           `mapstructure:"server"`
	Database         DatabaseConfig         `mapstructure:"database"`
	Redis            RedisConfig            `mapstructure:"redis"`
	NATS             NATSConfig             `mapstructure:"nats"`
	Network          NetworkConfig          `mapstructure:"network"`
	WhitelistService WhitelistServiceConfig `mapstructure:"whitelist_service"`
	Auth             AuthConfig             `mapstructure:"auth"`
	RateLimit        RateLimitConfig        `mapstructure:"rate_limit"`
	Signature        SignatureConfig        `mapstructure:"signature"`
	Timeouts         TimeoutConfig          `mapstructure:"timeouts"`
}

// ImportConfig holds configuration for the import-handles command
type ImportConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("environment", "development")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 45)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	v.SetDefault("nats.stream_name", "OG_CLAIMS")
	v.SetDefault("nats.subject_prefix", "og.claims")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "og-claim-api")
	v.SetDefault("network.name", string(domain.NetworkTestnet))
	v.SetDefault("whitelist_service.url", "http://localhost:3001")
	v.SetDefault("whitelist_service.requests_per_second", 2)
	v.SetDefault("whitelist_service.burst", 4)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.sweep_interval", "5m")
	v.SetDefault("rate_limit.eligibility.window", "60s")
	v.SetDefault("rate_limit.eligibility.max_requests", 20)
	v.SetDefault("rate_limit.whitelist.window", "60s")
	v.SetDefault("rate_limit.whitelist.max_requests", 5)
	v.SetDefault("rate_limit.whitelist_status.window", "60s")
	v.SetDefault("rate_limit.whitelist_status.max_requests", 30)
	v.SetDefault("rate_limit.claim.window", "60s")
	v.SetDefault("rate_limit.claim.max_requests", 3)
	v.SetDefault("rate_limit.token.window", "60s")
	v.SetDefault("rate_limit.token.max_requests", 30)
	v.SetDefault("signature.max_age", domain.DEFAULT_SIGNATURE_MAX_AGE.String())
	v.SetDefault("signature.purpose", domain.DEFAULT_CHALLENGE_PURPOSE)
	v.SetDefault("timeouts.read", "10s")
	v.SetDefault("timeouts.write", "10s")
	v.SetDefault("timeouts.whitelist", "30s")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	network, err := domain.ParseNetwork(string(config.Network.Name))
	if err != nil {
		return nil, err
	}
	config.Network.Name = network
	config.Network.RPCURL = ResolveRPCURL(network, config.Network.RPCURL)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadImportConfig loads configuration for the import-handles command
func LoadImportConfig(configFile string, envPath string) (*ImportConfig, error) {
	v := configureViper("import-handles", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	v.SetDefault("worker.pool_size", 4)
	v.SetDefault("worker.batch_size", 500)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ImportConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate checks cross-field requirements of the API configuration
func (c *APIConfig) Validate() error {
	if c.Network.ContractAddress != "" && !domain.IsValidAddress(c.Network.ContractAddress) {
		return fmt.Errorf("network.contract_address is not a valid address: %s", c.Network.ContractAddress)
	}
	if c.RateLimit.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when rate_limit.backend is redis")
	}
	if c.RateLimit.Backend != "memory" && c.RateLimit.Backend != "redis" {
		return fmt.Errorf("unsupported rate_limit.backend: %s", c.RateLimit.Backend)
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database.driver: %s", c.Database.Driver)
	}
	return nil
}

// ResolveRPCURL picks the RPC endpoint for a network: explicit value, then the
// per-network environment variable, then the generic RPC_URL, then the public default.
func ResolveRPCURL(network domain.Network, explicit string) string {
	if explicit != "" {
		return explicit
	}

	preset := network.Preset()
	if v := os.Getenv(preset.RPCEnvVar); v != "" {
		return v
	}
	if v := os.Getenv("RPC_URL"); v != "" {
		return v
	}

	return preset.DefaultRPCURL
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "og-claim.db")
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("OG_CLAIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		// Database
		"database.driver",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.sqlite_path",
		"database.auto_migrate",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Network
		"network.name",
		"network.rpc_url",
		"network.contract_address",
		// Whitelist service
		"whitelist_service.url",
		"whitelist_service.api_key",
		"whitelist_service.requests_per_second",
		"whitelist_service.burst",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		"server.trusted_proxies",
		"server.tls",
		// Auth
		"auth.jwt_secret",
		"auth.jwt_public_key",
		"auth.jwt_audience",
		"auth.api_keys",
		// Rate limit
		"rate_limit.backend",
		"rate_limit.sweep_interval",
		"rate_limit.eligibility.window",
		"rate_limit.eligibility.max_requests",
		"rate_limit.whitelist.window",
		"rate_limit.whitelist.max_requests",
		"rate_limit.whitelist_status.window",
		"rate_limit.whitelist_status.max_requests",
		"rate_limit.claim.window",
		"rate_limit.claim.max_requests",
		"rate_limit.token.window",
		"rate_limit.token.max_requests",
		// Signature
		"signature.max_age",
		"signature.purpose",
		// Timeouts
		"timeouts.read",
		"timeouts.write",
		"timeouts.whitelist",
		// Worker
		"worker.pool_size",
		"worker.batch_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConnectionString returns the DSN for postgres or the file path for sqlite
func (c *DatabaseConfig) ConnectionString() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return c.DSN()
}
