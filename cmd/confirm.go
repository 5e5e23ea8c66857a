package cmd

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"gridclip/pkg/errors"

	"github.com/fatih/color"
)

const (
	responseYes = "yes"
	responseY   = "y"
)

// prompter asks questions on out and reads answers from in.
type prompter struct {
	in  io.Reader
	out io.Writer
}

func IsDryRun() bool {
	return dryRunFlag
}

// PrintDryRun prints a message indicating what would happen in dry-run mode
func (p prompter) PrintDryRun(format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold)
	_, _ = yellow.Fprint(p.out, "[DRY-RUN] ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// printDetails writes key/value lines in a stable order.
func (p prompter) printDetails(details map[string]string) {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cyan := color.New(color.FgCyan)
	for _, k := range keys {
		_, _ = cyan.Fprintf(p.out, "  %s: ", k)
		fmt.Fprintln(p.out, details[k])
	}
}

// Confirm asks a yes/no question. --yes answers it.
func (p prompter) Confirm(message string) (bool, error) {
	if assumeYesFlag {
		return true, nil
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(p.out, "%s [y/N]: ", message)

	response, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == responseY || response == responseYes, nil
}

// ConfirmDestructive prompts before a destructive action. In dry-run mode
// it only describes the action and reports false.
func (p prompter) ConfirmDestructive(action string, details map[string]string) (bool, error) {
	if dryRunFlag {
		yellow := color.New(color.FgYellow, color.Bold)
		_, _ = yellow.Fprintf(p.out, "[DRY-RUN] Would %s:\n", action)
		p.printDetails(details)
		return false, nil
	}

	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(p.out, "Warning: You are about to %s\n\n", action)
	if len(details) > 0 {
		p.printDetails(details)
		fmt.Fprintln(p.out)
	}

	return p.Confirm("Do you want to continue")
}

// RequireConfirmation fails with a cancellation error unless the user agrees.
func (p prompter) RequireConfirmation(action string, details map[string]string) error {
	confirmed, err := p.ConfirmDestructive(action, details)
	if err != nil {
		return err
	}
	if !confirmed {
		return errors.New(errors.ExitCodeCancellation, "operation canceled")
	}
	return nil
}
