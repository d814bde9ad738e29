package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress     = ":8080"
	defaultLinkOrigin     = "http://localhost:8080"
	defaultReaperSchedule = "@every 1m"
	defaultTokenValidity  = 24 * time.Hour
	defaultSecret         = "change-me-in-production"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Auth   auth
	Logger logger
	Reaper reaper
}

type db struct {
	DatabaseURI string
	Migrations  string
}

type server struct {
	RunAddress string
	// LinkOrigin is the public origin used when assembling share links.
	LinkOrigin string
}

type auth struct {
	Secret        string
	TokenValidity time.Duration
}

type logger struct {
	LogLevel string
}

type reaper struct {
	// Schedule is a cron expression for the background expiry sweep.
	Schedule string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	// Absence of a .env file just means we rely on the environment.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	conf := &Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{
			RunAddress: viper.GetString("run_address"),
			LinkOrigin: viper.GetString("link_origin"),
		},
		Auth: auth{
			Secret:        viper.GetString("secret"),
			TokenValidity: defaultTokenValidity,
		},
		Logger: logger{LogLevel: viper.GetString("log_level")},
		Reaper: reaper{Schedule: viper.GetString("reaper_schedule")},
	}

	if conf.Env == "" {
		conf.Env = EnvLocal
	}
	if conf.Server.RunAddress == "" {
		conf.Server.RunAddress = defaultRunAddress
	}
	if conf.Server.LinkOrigin == "" {
		conf.Server.LinkOrigin = defaultLinkOrigin
	}
	if conf.Auth.Secret == "" {
		conf.Auth.Secret = defaultSecret
	}
	if conf.Reaper.Schedule == "" {
		conf.Reaper.Schedule = defaultReaperSchedule
	}

	return conf
}
