package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/backlog-cli/bckl/internal/cli"
	"github.com/backlog-cli/bckl/internal/config"
	"github.com/backlog-cli/bckl/internal/inference"
	"github.com/backlog-cli/bckl/internal/inference/openai"
	"github.com/backlog-cli/bckl/internal/prompt"
	"github.com/backlog-cli/bckl/internal/store"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configFile string
)

func main() {
	rootCommand := newRootCommand()
	if err := rootCommand.Execute(); err != nil {
		if !errors.Is(err, cli.ErrCancelled) {
			if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
				panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
			}
		}
		os.Exit(exitCode(err))
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	var dryRun bool
	rootCommand := &cobra.Command{
		Use:           "bckl",
		Short:         "Dictation-driven backlog entry tool",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setupLogger(cfg, debugMode)

			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}

			workingDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("os.Getwd() > %w", err)
			}
			systemPrompt := prompt.BuildSystemPrompt(workingDir)

			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, systemPrompt, inference.NewCache(), inference.DefaultRetryConfig())
			defer func() {
				_ = openaiClient.Close()
			}()

			dictationCLI := cli.NewDictationCLI(openaiClient, store.NewStore(os.Stdout), dryRun)
			return dictationCLI.Run(context.Background())
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.Flags().BoolVar(&dryRun, "dry-run", false, "Print JSON output but do not write to CSV")

	return rootCommand
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, inference.ErrEmptyInput) || errors.Is(err, cli.ErrCancelled) {
		return 1
	}
	return 2
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// setupLogger writes logs to a dated file under the configured directory so
// the interactive console stays clean. Falls back to stderr when the file
// cannot be opened.
func setupLogger(cfg *config.Config, debugMode bool) {
	logLevel := parseLogLevel(cfg.Log.Level)
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(openLogFile(cfg.Log.Directory), &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func openLogFile(directory string) io.Writer {
	if err := os.MkdirAll(directory, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: could not create a log directory %s: %v\n", directory, err)
		return os.Stderr
	}

	fileName := fmt.Sprintf("bckl_%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(filepath.Join(directory, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: could not open a log file %s: %v\n", fileName, err)
		return os.Stderr
	}
	return logFile
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
