package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Security  SecurityConfig  `yaml:"security"`
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Documents DocumentsConfig `yaml:"documents"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // debug / release / test
}

// SetDefaults 设置服务默认值
func (c *ServerConfig) SetDefaults() {
	if c.APIPort == 0 {
		c.APIPort = 8080
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // postgres (default) or mysql
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	SSLMode         string `yaml:"sslmode"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`

	// MigrateReferenceTables also migrates expedientes, licitaciones, contratos and the
	// tables they join. Off in deployments where the portal schema already owns them.
	MigrateReferenceTables bool `yaml:"migrate_reference_tables"`
}

type RedisConfig struct {
	// Enabled turns on the shared client used for the template activation lock.
	// When false the service runs single-instance and relies on the DB transaction only.
	Enabled bool `yaml:"enabled"`

	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	ConnectTimeout int    `yaml:"connect_timeout"` // seconds
	ReadTimeout    int    `yaml:"read_timeout"`    // seconds
	WriteTimeout   int    `yaml:"write_timeout"`   // seconds
	PoolSize       int    `yaml:"pool_size"`
	MinIdleConns   int    `yaml:"min_idle_conns"`
}

// Validate 验证Redis配置
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}

	return nil
}

// SetDefaults 设置默认值
func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type SecurityConfig struct {
	// JWTSecret HS256 key shared with the portal's identity provider.
	JWTSecret string `yaml:"jwt_secret"`
}

// SetDefaults 设置安全配置的默认值
func (c *SecurityConfig) SetDefaults() {
	if c.JWTSecret == "" {
		// development only
		c.JWTSecret = "pnccp-dev-secret-change-me-0f3b1c7e9a4d2b8e6c5a1f0d9e8b7c6a"
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Output string `yaml:"output"` // console / file / both
	File   string `yaml:"file"`
}

// StorageConfig selects where rendered documents are written.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // noop (default) / s3
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // optional, LocalStack / MinIO
	// AccessKey/SecretKey, when set, take precedence over the default AWS credential chain.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Validate 验证存储配置
func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case "", "noop":
		return nil
	case "s3":
		if c.Bucket == "" {
			return fmt.Errorf("storage bucket is required when driver=s3")
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage driver: %s (supported: noop, s3)", c.Driver)
	}
}

// SetDefaults 设置存储默认值
func (c *StorageConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "noop"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

type DocumentsConfig struct {
	// TimeZone used for the human readable generation timestamp in the document shell.
	TimeZone string `yaml:"time_zone"`
	// SystemActor is the display name used when no acting user can be resolved.
	SystemActor string `yaml:"system_actor"`
	// ActivationLockTTL seconds the Redis activation lock is held at most.
	ActivationLockTTL int `yaml:"activation_lock_ttl"`
}

// SetDefaults 设置文档默认值
func (c *DocumentsConfig) SetDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = "Africa/Malabo"
	}
	if c.SystemActor == "" {
		c.SystemActor = "Sistema"
	}
	if c.ActivationLockTTL == 0 {
		c.ActivationLockTTL = 10
	}
}

// Location 返回配置的时区，无法加载时退回 UTC+1 固定时区
func (c *DocumentsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.FixedZone("WAT", 3600)
	}
	return loc
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse 解析 YAML 内容并应用环境变量覆盖和默认值
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&config)

	config.Server.SetDefaults()
	config.Database.SetDefaults()
	config.Redis.SetDefaults()
	config.Security.SetDefaults()
	config.Storage.SetDefaults()
	config.Documents.SetDefaults()

	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}
	if err := config.Storage.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides 支持通过环境变量覆盖配置（容器部署时使用）
func applyEnvOverrides(config *Config) {
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = port
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		config.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		if enabled, err := strconv.ParseBool(redisEnabled); err == nil {
			config.Redis.Enabled = enabled
		}
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		config.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if port, err := strconv.Atoi(redisPort); err == nil {
			config.Redis.Port = port
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}

	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if endpoint := os.Getenv("STORAGE_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// SetDefaults 设置默认值
func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" || c.Driver == "postgresql" {
		c.Driver = "postgres"
	}
	if c.Port == 0 {
		if c.Driver == "mysql" {
			c.Port = 3306
		} else {
			c.Port = 5432
		}
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600 // 1 hour
	}
}
