package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		TokenTTLHours int
		BcryptCost    int
		Issuer        string
	}
	Log struct {
		Level  string
		Format string
	}
	Storage struct {
		Bucket         string
		KeyPrefix      string
		Region         string
		Endpoint       string
		PublicBaseURL  string
		MaxAvatarBytes int64
	}
	AWS struct {
		Profile string
	}
}

// TokenTTL is the access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %d hours", c.Auth.TokenTTLHours)
	}
	return nil
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// a missing .env is fine; existing environment variables win
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DEVCONNECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("database.path", "data/devconnector.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlhours", 100)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.issuer", "devconnector")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "avatars")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.maxavatarbytes", 2<<20)
	v.SetDefault("aws.profile", "")
}
