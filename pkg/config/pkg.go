package config

import (
	"path/filepath"

	"github.com/apex/log"
	"github.com/mitchellh/go-homedir"
)

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromDotenv loads the .cgstorage dotenv file from the user's home
// directory. Missing files are not fatal; the process environment still applies.
func MustLoadFromDotenv() Configer {
	dotenvPath, err := homedir.Expand("~/.cgstorage")
	if err != nil {
		log.Fatalf("Unable to determine home directory: %s", err)
	}

	c := NewDotenvConfig(dotenvPath)
	_ = c.Load()
	SetConfig(c)

	return c
}

// StorageRoot returns the directory file content is stored under. Defaults
// to ~/cgstorage/files when CGS_DIR isn't set.
func StorageRoot() string {
	if dir := configer.GetKey("CGS_DIR"); dir != "" {
		return dir
	}

	home, err := homedir.Dir()
	if err != nil {
		log.Fatalf("Unable to determine home directory: %s", err)
	}

	return filepath.Join(home, "cgstorage", "files")
}

// LogLevel returns the configured log level name, defaulting to info.
func LogLevel() string {
	return configer.GetKeyWithDefault("CGS_LOG_LEVEL", "info")
}

// GetTxRetry returns the number of times to retry a failed database
// transaction, never fewer than 3.
func GetTxRetry() int {
	retryCount := configer.GetIntKeyWithDefault("CGS_TX_RETRY", 3)
	if retryCount < 3 {
		retryCount = 3
	}

	return retryCount
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}
