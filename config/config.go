package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	ExpiryWeightPercent     int     `json:"expiryWeightPercent"`
	StagnationThresholdDays int     `json:"stagnationThresholdDays"`
	TopN                    int     `json:"topN"`
	DefaultPageSize         int     `json:"defaultPageSize"`
	AdvisorModel            string  `json:"advisorModel"`
	AdvisorTemperature      float64 `json:"advisorTemperature"`
	AdvisorMaxTokens        int     `json:"advisorMaxTokens"`
	AdvisorBaseURL          string  `json:"advisorBaseURL"`
	AdvisorAPIKey           string  `json:"advisorApiKey"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./fudo_config.json"

func applyDefaults(c *Config) {
	if c.ExpiryWeightPercent == 0 {
		c.ExpiryWeightPercent = 50
	}
	if c.StagnationThresholdDays == 0 {
		c.StagnationThresholdDays = 180
	}
	if c.TopN == 0 {
		c.TopN = 5
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = 50
	}
	if c.AdvisorModel == "" {
		c.AdvisorModel = "gpt-4o-mini"
	}
	if c.AdvisorTemperature == 0 {
		c.AdvisorTemperature = 0.3
	}
	if c.AdvisorMaxTokens == 0 {
		c.AdvisorMaxTokens = 1024
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	c := cfg
	applyDefaults(&c)
	return c
}
