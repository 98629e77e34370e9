package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/classify"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/server"
)

const (
	app = "resume-analyzer"
)

type Config struct {
	Skills         SkillsConfig         `mapstructure:"skills"`
	JobDescription JobDescriptionConfig `mapstructure:"job-description"`
	AI             AIConfig             `mapstructure:"ai"`
	Server         server.Config        `mapstructure:"server"`
}

type SkillsConfig struct {
	Catalog    []string            `mapstructure:"catalog"`
	Categories []classify.Category `mapstructure:"categories"`
}

type JobDescriptionConfig struct {
	HighPriorityKeywords []string `mapstructure:"high-priority-keywords"`
	LowPriorityKeywords  []string `mapstructure:"low-priority-keywords"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CandidateLabels []string      `mapstructure:"candidate-labels"`
	Gemini          GeminiConfig  `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-analyzer extracts candidate data from resumes and matches skills against job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("server.addr", server.DefaultAddr)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (default is info)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// .env is optional, a missing file is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was passed explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// newLogger builds the logger from flags and the log section of the config.
func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:    viper.GetBool("json"),
		Debug:   viper.GetBool("debug"),
		Level:   viper.GetString("log.level"),
		Outputs: viper.GetStringSlice("log.outputs"),
	})
}
