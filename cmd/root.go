package cmd

import (
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/fit"
)

const (
	app = "jobpilot"
)

type Config struct {
	DataDir     string       `mapstructure:"data-dir"`
	PromptsDir  string       `mapstructure:"prompts-dir"`
	ProfileFile string       `mapstructure:"profile-file"`
	Fetch       *FetchConfig `mapstructure:"fetch"`
	Scoring     fit.Weights  `mapstructure:"scoring"`
	AI          *AIConfig    `mapstructure:"ai"`
}

type FetchConfig struct {
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
}

type AIConfig struct {
	Provider     string              `mapstructure:"provider"`
	RateLimit    int                 `mapstructure:"rate-limit"`
	MaxLogLength int                 `mapstructure:"max-log-length"`
	Pricing      map[string]ai.Price `mapstructure:"pricing"`
	OpenAI       *OpenAIConfig       `mapstructure:"openai"`
	Gemini       *GeminiConfig       `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKeyFile string        `mapstructure:"api-key-file"`
	BaseURL    string        `mapstructure:"base-url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobpilot extracts job postings, scores them against your profile and drafts application documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"data-dir":               "JOBPILOT_DATA_DIR",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("data-dir", "data")
	viper.SetDefault("ai.provider", "openai")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobpilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for jobs, settings, profile and the usage log")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Fetch:   &FetchConfig{TimeoutSeconds: 30},
		Scoring: fit.DefaultWeights(),
		AI: &AIConfig{
			OpenAI: &OpenAIConfig{Timeout: 2 * time.Minute},
			Gemini: &GeminiConfig{},
		},
	}
}

func getConfig() (*Config, error) {
	config := defaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.ProfileFile == "" {
		config.ProfileFile = filepath.Join(config.DataDir, "profile.json")
	}
	return config, nil
}
