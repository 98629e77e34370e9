package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/document"
)

const (
	PromptPrint      = "Print analysis"
	PromptCategories = "Report skill categories"
	PromptMatch      = "Match against a job description file"
	PromptDump       = "Dump analysis to file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrint, PromptCategories, PromptMatch, PromptDump, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a resume file (pdf, docx or txt)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("yes", "y", false, "print the analysis and exit without asking")
}

// report is the CLI view of one analyzed resume.
type report struct {
	Filename string `json:"filename"`
	RawText  string `json:"raw_text,omitempty"`
	*analysis.Analysis
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	svc, err := newService(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	text, err := document.Extract(filepath.Base(path), data)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err), zap.String("file", path))
	}

	result, err := svc.Analyze(ctx, text)
	if err != nil {
		logger.Fatal("analyzing the resume", zap.Error(err))
	}

	for _, warning := range result.Warnings {
		logger.Warn("analysis degraded", zap.String("reason", warning))
	}

	rep := &report{Filename: filepath.Base(path), Analysis: result}
	out := cmd.OutOrStdout()

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := printJSON(out, rep); err != nil {
			logger.Fatal("printing the analysis", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, svc, rep, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, svc *analysis.Service, rep *report, logger *zap.Logger) error {
	switch action {
	case PromptPrint:
		return printJSON(out, rep)
	case PromptCategories:
		return printCategories(out, rep.Analysis)
	case PromptMatch:
		jdPrompt := promptui.Prompt{Label: "Job description file"}
		jdFile, err := jdPrompt.Run()
		if err != nil {
			return err
		}
		return matchFile(out, svc, rep.Parsed.Skills, jdFile)
	case PromptDump:
		filename, err := dumpToTmpFile(rep)
		if err != nil {
			return fmt.Errorf("dump analysis to file: %w", err)
		}
		logger.Info("dumping analysis to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printCategories(out io.Writer, result *analysis.Analysis) error {
	names := make([]string, 0, len(result.SkillAnalysis.Categories))
	for name := range result.SkillAnalysis.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%s: %s\n", name, strings.Join(result.SkillAnalysis.Categories[name], ", ")); err != nil {
			return err
		}
	}

	if len(result.SkillAnalysis.Unclassified) > 0 {
		_, err := fmt.Fprintf(out, "unclassified: %s\n", strings.Join(result.SkillAnalysis.Unclassified, ", "))
		return err
	}

	return nil
}

func matchFile(out io.Writer, svc *analysis.Service, skills []string, jdFile string) error {
	jdText, err := os.ReadFile(strings.TrimSpace(jdFile))
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	return printJSON(out, svc.MatchSkills(skills, string(jdText)))
}

func dumpToTmpFile(rep *report) (string, error) {
	file, err := os.CreateTemp("", app+"-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := printJSON(file, rep); err != nil {
		return "", err
	}

	return file.Name(), nil
}
