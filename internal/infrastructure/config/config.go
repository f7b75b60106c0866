package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

// Auth modes and credential directories.
const (
	AuthRemote = "remote"
	AuthDemo   = "demo"

	DirectoryStatic = "static"
	DirectoryMongo  = "mongo"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	OpsAddr   string `env:"OPS_ADDR,   default=:9090"`

	// OpsJWTSecret guards /state and enables POST /refresh when set.
	OpsJWTSecret string `env:"OPS_JWT_SECRET"`

	API     APIConfig
	Session SessionConfig
	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000" validate:"required,url"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	Backend string        `env:"SESSION_BACKEND, default=file"         validate:"oneof=memory file redis"`
	File    string        `env:"SESSION_FILE,    default=.dashboard/session.json"`
	TTL     time.Duration `env:"SESSION_TTL,     default=24h"`
	Profile string        `env:"SESSION_PROFILE, default=default"`
}

type AuthConfig struct {
	Mode           string        `env:"AUTH_MODE,         default=remote" validate:"oneof=remote demo"`
	Directory      string        `env:"DIRECTORY_BACKEND, default=static" validate:"oneof=static mongo"`
	DemoUsersFile  string        `env:"DEMO_USERS_FILE"`
	DemoJWTSecret  string        `env:"DEMO_JWT_SECRET"`
	DemoTokenTTL   time.Duration `env:"DEMO_TOKEN_TTL,    default=1h"`
	SeedMongoUsers bool          `env:"DEMO_SEED_MONGO,   default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ops_dashboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads an optional .env file, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom resolves configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Auth.Mode == AuthDemo && c.Auth.DemoJWTSecret == "" {
		return errors.New("invalid configuration: DEMO_JWT_SECRET is required when AUTH_MODE=demo")
	}
	if c.Session.Backend == SessionFile && c.Session.File == "" {
		return errors.New("invalid configuration: SESSION_FILE is required when SESSION_BACKEND=file")
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool { return c.Session.Backend == SessionRedis }

// UsesMongo reports whether any component needs a MongoDB connection.
func (c *Config) UsesMongo() bool {
	return c.Auth.Mode == AuthDemo && c.Auth.Directory == DirectoryMongo
}
