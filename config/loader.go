package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	instance Config
	once     sync.Once
	loadErr  error
)

// Load reads every file in order, then overlays the process environment.
// Later files win. The result is cached until Reset.
func Load(configPaths ...string) (Config, error) {
	once.Do(func() {
		cfg := &config{}

		for _, configPath := range configPaths {
			if configPath == "" {
				continue
			}
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				loadErr = fmt.Errorf("failed to read config file %s: %w", configPath, err)
				return
			}
		}

		if err := cleanenv.ReadEnv(cfg); err != nil {
			loadErr = fmt.Errorf("failed to read environment variables: %w", err)
			return
		}

		instance = cfg
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return instance, nil
}

// Sources returns the yaml path followed by the env file when it exists.
// A missing env file is not an error; deployments usually inject env vars.
func Sources(configPath, envFile string) []string {
	paths := []string{configPath}
	if envFile == "" {
		return paths
	}
	if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
		return paths
	}
	return append(paths, envFile)
}

func MustLoad(configPaths ...string) Config {
	cfg, err := Load(configPaths...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	return cfg
}

func Reset() {
	instance = nil
	loadErr = nil
	once = sync.Once{}
}

func MustGet() Config {
	if instance == nil {
		panic("config not loaded, call Load() first")
	}
	return instance
}
