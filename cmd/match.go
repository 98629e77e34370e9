package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/jd"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score candidate skills against a job description file",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringSlice("skills", nil, "comma separated candidate skills")
	matchCmd.Flags().String("jd", "", "a file with the job description text")
	matchCmd.MarkFlagRequired("jd")
}

func match(cmd *cobra.Command) {
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	skills, _ := cmd.Flags().GetStringSlice("skills")
	jdFile, _ := cmd.Flags().GetString("jd")

	jdText, err := os.ReadFile(jdFile)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	// Matching never calls the AI capabilities.
	config.AI.Enabled = false

	svc, err := newService(cmd.Context(), config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	result := svc.MatchSkills(skills, string(jdText))

	logger.Debug("job description sections",
		zap.Strings(jd.HighPriority, result.HighPriority),
		zap.Strings(jd.LowPriority, result.LowPriority),
	)

	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("printing the result", zap.Error(err))
	}
}
