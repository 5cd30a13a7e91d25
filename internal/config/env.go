package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is prepended to every automatically bound environment variable.
const EnvPrefix = "SHORTCUTS"

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// envAliases binds the bare variable names that .env files commonly use.
var envAliases = map[string]string{
	"agent.openai_api_key": "OPENAI_API_KEY",
	"agent.gemini_api_key": "GEMINI_API_KEY",
	"cloud.bin_url":        "BIN_URL",
	"cloud.master_key":     "MASTER_KEY",
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := gotenv.Load(path); err != nil {
		return false, err
	}
	return true, nil
}

// BindEnvAliases binds each aliased key to both its prefixed name and the
// bare name, the prefixed one taking precedence.
func BindEnvAliases() error {
	for key, alias := range envAliases {
		prefixed := EnvPrefix + "_" + envKey(key)
		if err := viper.BindEnv(key, prefixed, alias); err != nil {
			return err
		}
	}
	return nil
}

// EnvAliases returns the bare environment variable for each aliased key.
func EnvAliases() map[string]string {
	out := make(map[string]string, len(envAliases))
	for k, v := range envAliases {
		out[k] = v
	}
	return out
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
