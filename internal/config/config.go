package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	APIConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

// APIConfig describes how to reach the clinic's backend REST API.
type APIConfig interface {
	GetAPIBaseURL() string
}

type mainConfig struct {
	EnvVars
	Client
}

func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
