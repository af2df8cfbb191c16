package config

import (
	"fmt"
	"strings"

	"github.com/allisson/go-env"
)

const (
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	logLevelVar   = "LOG_LEVEL"
	viewerPortVar = "EFACT_VIEWER_PORT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return env.GetString(appNameVar, "eFact Docs")
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(env.GetString(envVar, "DEV"))
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(env.GetString(logLevelVar, "info"))
}

// GetViewerPort returns the listen address of the local document viewer, e.g. ":8089".
func (EnvVars) GetViewerPort() string {
	port := env.GetString(viewerPortVar, "8089")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}
