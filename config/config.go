package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const defaultRequestTimeout = 60 * time.Second

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetIndexPath() string {
	indexPath := c.config.GetString("INDEX_PATH")
	if len(indexPath) == 0 {
		indexPath = c.config.GetString("database.index_path")
	}

	return indexPath
}

func (c *Config) GetIndexName() string {
	indexName := c.config.GetString("INDEX_NAME")
	if len(indexName) == 0 {
		indexName = c.config.GetString("database.index_name")
	}

	return indexName
}

func (c *Config) GetConfigDBPath() string {
	configDBPath := c.config.GetString("CONFIG_DB_PATH")
	if len(configDBPath) == 0 {
		configDBPath = c.config.GetString("database.config_db_path")
	}

	return configDBPath
}

func (c *Config) GetStoragePath() string {
	storagePath := c.config.GetString("STORAGE_PATH")
	if len(storagePath) == 0 {
		storagePath = c.config.GetString("database.storage_path")
	}

	return storagePath
}

// GetSeedPath points at a YAML file used to pre-populate the configuration
// store (filters, sort options, spotlights). Empty means no seeding.
func (c *Config) GetSeedPath() string {
	seedPath := c.config.GetString("SEED_PATH")
	if len(seedPath) == 0 {
		seedPath = c.config.GetString("search.seed_path")
	}

	return seedPath
}

func (c *Config) GetMetadataAPIURL() string {
	apiURL := c.config.GetString("XIS_METADATA_API")
	if len(apiURL) == 0 {
		apiURL = c.config.GetString("xis.metadata_api")
	}

	return apiURL
}

func (c *Config) GetRequestTimeout() time.Duration {
	timeout := c.config.GetDuration("REQUEST_TIMEOUT")
	if timeout == 0 {
		timeout = c.config.GetDuration("server.request_timeout")
	}
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return timeout
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
