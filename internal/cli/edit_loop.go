package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/backlog-cli/bckl/internal/inference"
)

// editState tracks where the interactive revision loop is.
type editState int

const (
	stateAwaitingInstruction editState = iota
	stateRevising
	stateAccepted
	stateCancelled
)

// editLoop shows the entry and lets the user revise it until an empty
// instruction line accepts it. A failed revision keeps the current entry and
// returns to the instruction prompt.
func (cli *DictationCLI) editLoop(ctx context.Context, entry inference.BacklogEntry) (inference.BacklogEntry, error) {
	state := stateAwaitingInstruction
	var instruction string
	for {
		switch state {
		case stateAwaitingInstruction:
			cli.displayEntry(entry)
			fmt.Fprint(cli.stdoutWriter, "> ")
			line, err := cli.readLine(ctx)
			if err != nil {
				if errors.Is(err, ErrCancelled) {
					state = stateCancelled
					continue
				}
				return entry, err
			}
			instruction = strings.TrimSpace(line)
			if instruction == "" {
				state = stateAccepted
				continue
			}
			state = stateRevising

		case stateRevising:
			revised, err := cli.inferenceClient.ReviseEntry(ctx, inference.ReviseEntryRequest{
				Entry:       entry,
				Instruction: instruction,
			})
			if err != nil {
				slog.Default().Error("Failed to process edit instructions", slog.Any("error", err))
				_, _ = cli.red.Fprintf(cli.stderrWriter, "ERROR: %v\n", err)
				fmt.Fprintln(cli.stdoutWriter, "Original entry preserved. You can try different edit instructions.")
				state = stateAwaitingInstruction
				continue
			}
			entry = revised
			slog.Default().Info("Entry updated based on edit instructions")
			state = stateAwaitingInstruction

		case stateAccepted:
			return entry, nil

		case stateCancelled:
			return entry, ErrCancelled
		}
	}
}

// displayEntry prints the current entry between blank lines.
func (cli *DictationCLI) displayEntry(entry inference.BacklogEntry) {
	fmt.Fprintln(cli.stdoutWriter)
	fmt.Fprintf(cli.stdoutWriter, "%s %s\n", cli.bold.Sprint("Title:"), entry.Title)
	fmt.Fprintf(cli.stdoutWriter, "%s %d\n", cli.bold.Sprint("Difficulty:"), entry.Difficulty)
	fmt.Fprintf(cli.stdoutWriter, "%s %s\n", cli.bold.Sprint("Description:"), entry.Description)
	fmt.Fprintln(cli.stdoutWriter)
}
