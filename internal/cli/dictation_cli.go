// Package cli implements the interactive dictation session: one dictation
// line in, one reviewed backlog entry prepended to the backlog file.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/backlog-cli/bckl/internal/inference"
	"github.com/backlog-cli/bckl/internal/store"
	"github.com/fatih/color"
)

const backlogFileName = "backlog.csv"

// DictationCLI drives one dictation session: read a line from stdin, extract
// a backlog entry, let the user revise it, and prepend the accepted entry to
// the backlog file.
type DictationCLI struct {
	inferenceClient inference.Client
	store           *store.Store
	backlogPath     string
	dryRun          bool
	stdinReader     *bufio.Reader
	stdoutWriter    io.Writer
	stderrWriter    io.Writer
	bold            *color.Color
	green           *color.Color
	red             *color.Color
}

func NewDictationCLI(inferenceClient inference.Client, store *store.Store, dryRun bool) *DictationCLI {
	return &DictationCLI{
		inferenceClient: inferenceClient,
		store:           store,
		backlogPath:     backlogFileName,
		dryRun:          dryRun,
		stdinReader:     bufio.NewReader(os.Stdin),
		stdoutWriter:    os.Stdout,
		stderrWriter:    os.Stderr,
		bold:            color.New(color.Bold),
		green:           color.New(color.FgGreen),
		red:             color.New(color.FgRed),
	}
}

// Run executes the session until the entry is saved, the user cancels with
// an interrupt, or a non-retryable failure surfaces.
func (cli *DictationCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	if err := cli.session(ctx); err != nil {
		if errors.Is(err, ErrCancelled) {
			fmt.Fprintln(cli.stderrWriter, "\nCancelled.")
		}
		return err
	}
	return nil
}

func (cli *DictationCLI) session(ctx context.Context) error {
	dictation, err := cli.readLine(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(dictation) == "" {
		return fmt.Errorf("no input received, please dictate or type a line and press Enter > %w", inference.ErrEmptyInput)
	}

	entry, err := cli.inferenceClient.ExtractEntry(ctx, inference.ExtractEntryRequest{
		Dictation: dictation,
	})
	if err != nil {
		return fmt.Errorf("inferenceClient.ExtractEntry() > %w", err)
	}

	if cli.dryRun {
		output, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("json.MarshalIndent() > %w", err)
		}
		fmt.Fprintln(cli.stdoutWriter, string(output))
		slog.Default().Info("Dry-run output", slog.String("dictation", strings.TrimSpace(dictation)))
		return nil
	}

	entry, err = cli.editLoop(ctx, entry)
	if err != nil {
		return err
	}

	return cli.save(entry)
}

// save prepends the accepted entry to the backlog file and confirms on the
// console.
func (cli *DictationCLI) save(entry inference.BacklogEntry) error {
	row := []string{entry.Title, strconv.Itoa(entry.Difficulty), entry.Description, entry.Timestamp}
	if err := cli.store.PrependRow(cli.backlogPath, row); err != nil {
		return fmt.Errorf("store.PrependRow() > %w", err)
	}

	_, _ = cli.green.Fprintf(cli.stdoutWriter, "Entry saved: %s (difficulty: %d)\n", entry.Title, entry.Difficulty)
	slog.Default().Info("Entry saved", slog.String("title", entry.Title))
	return nil
}

// readLine reads one line from stdin. EOF without a trailing newline still
// yields the partial line. An interrupt while the read is blocked returns
// ErrCancelled.
func (cli *DictationCLI) readLine(ctx context.Context) (string, error) {
	type readResult struct {
		line string
		err  error
	}
	resultCh := make(chan readResult, 1)
	go func() {
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			resultCh <- readResult{err: err}
			return
		}
		resultCh <- readResult{line: line}
	}()

	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case result := <-resultCh:
		if result.err != nil {
			return "", fmt.Errorf("stdinReader.ReadString() > %w", result.err)
		}
		return result.line, nil
	}
}
