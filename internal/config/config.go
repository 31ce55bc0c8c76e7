package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Oracle   OracleConfig   `json:"oracle"`
	Ethereum EthereumConfig `json:"ethereum"`
	Security SecurityConfig `json:"security"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// OracleConfig configures the Gemini vision oracle
type OracleConfig struct {
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// EthereumConfig configures the settlement network client
type EthereumConfig struct {
	RPCURL          string `json:"rpc_url"`
	PrivateKey      string `json:"private_key"`
	ContractAddress string `json:"contract_address"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

// StorageConfig configures evidence video storage
type StorageConfig struct {
	EvidenceBucket string `json:"evidence_bucket"`
	Region         string `json:"region"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "optic_gov",
			SSLMode: "disable",
		},
		Oracle: OracleConfig{
			Model:          "gemini-2.0-flash-exp",
			TimeoutSeconds: 60,
		},
		Ethereum: EthereumConfig{
			TimeoutSeconds: 90,
		},
		Security: SecurityConfig{
			TokenTTLMinutes: 30,
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Oracle.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.Oracle.Model = model
	}
	if rpc := os.Getenv("SEPOLIA_RPC_URL"); rpc != "" {
		config.Ethereum.RPCURL = rpc
	}
	if pk := os.Getenv("ETHEREUM_PRIVATE_KEY"); pk != "" {
		config.Ethereum.PrivateKey = pk
	}
	if addr := os.Getenv("CONTRACT_ADDRESS"); addr != "" {
		config.Ethereum.ContractAddress = addr
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if bucket := os.Getenv("EVIDENCE_BUCKET"); bucket != "" {
		config.Storage.EvidenceBucket = bucket
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
