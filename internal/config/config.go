package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	LogMode       bool   `mapstructure:"log_mode"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	once      sync.Once
	loadErr   error
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/budget.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("cors.allowed_origins", []string{"https://budget-tracker-frontend-dysk.onrender.com"})
	v.SetDefault("log.level", "info")
}

// Read builds a Config from the given file path and the environment.
// A missing file is not an error; defaults and env overrides still apply.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. BT_SERVER_PORT=9000
	v.SetEnvPrefix("BT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.CORS.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate rejects origins the CORS middleware would panic on at startup.
func (c CORSConfig) validate() error {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("cors.allowed_origins: %q must be \"*\" or start with http:// or https://", o)
		}
	}
	return nil
}

// Load reads the configuration once and caches it for Get.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = Read(path)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
