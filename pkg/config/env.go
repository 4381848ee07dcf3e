package config

import (
	"os"
)

// Environment variable names
const (
	EnvAPIURL     = "ACTIVESTORE_API_URL"
	EnvRootPath   = "ACTIVESTORE_ROOT_PATH"
	EnvToken      = "ACTIVESTORE_TOKEN"
	EnvStorageKey = "ACTIVESTORE_STORAGE_KEY"
	EnvLogLevel   = "ACTIVESTORE_LOG_LEVEL"
	EnvConfig     = "ACTIVESTORE_CONFIG"
)

// ApplyEnv overrides cfg with the environment. Only variables that are set
// and non-empty apply.
func ApplyEnv(cfg *Config) {
	for env, field := range map[string]string{
		EnvAPIURL:     "api.url",
		EnvRootPath:   "api.rootPath",
		EnvToken:      "api.token",
		EnvStorageKey: "storage.key",
		EnvLogLevel:   "log.level",
	} {
		if v := os.Getenv(env); v != "" {
			cfg.Set(field, v, SourceEnv)
		}
	}
}
