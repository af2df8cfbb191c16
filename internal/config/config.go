package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	OAuthConfig
	DownloadConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetViewerPort() string
}

type DownloadConfig interface {
	GetDownloadDir() string
	GetDefaultTextMimeType() string
}

type mainConfig struct {
	EnvVars
	API
	OAuth
	Download
}

// New loads an optional .env file and returns a Config that reads the process environment.
func New() Config {
	loadDotEnv()
	return mainConfig{}
}

// loadDotEnv walks from the working directory up to the root and loads the first .env found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
