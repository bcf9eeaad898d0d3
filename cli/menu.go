package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/time/rate"

	"followexport/core"
)

const menuWidth = 40

type Runner interface {
	Run(ctx context.Context, username string) core.Outcome
}

// Menu is the interactive loop: 0 exits, 1 exports the followings of one username.
type Menu struct {
	runner   Runner
	prompter Prompter
	out      io.Writer
	caveat   string
	limiter  *rate.Limiter
}

func NewMenu(runner Runner, prompter Prompter, out io.Writer, caveat string, delay time.Duration) *Menu {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	return &Menu{
		runner:   runner,
		prompter: prompter,
		out:      out,
		caveat:   caveat,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (m *Menu) Loop(ctx context.Context) error {
	for {
		// Keeps a pause between two iterations so the remote side is not hammered.
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}

		m.display()

		choice, err := m.prompter.Prompt("Enter your choice (0-1): ")
		if errors.Is(err, io.EOF) || errors.Is(err, ErrAborted) {
			fmt.Fprintln(m.out, "\nExiting program. Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "0":
			fmt.Fprintln(m.out, "Exiting program. Goodbye!")
			return nil
		case "1":
			if err := m.export(ctx); err != nil {
				return err
			}
		default:
			color.New(color.FgYellow).Fprintln(m.out, "Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) export(ctx context.Context) error {
	username, err := m.prompter.Prompt("Enter username (without @): ")
	if errors.Is(err, ErrAborted) {
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	printOutcome(m.out, m.runner.Run(ctx, username))
	return nil
}

func (m *Menu) display() {
	rule := strings.Repeat("=", menuWidth)

	fmt.Fprintln(m.out, "\n"+rule)
	fmt.Fprintln(m.out, center("FOLLOWING EXPORTER", menuWidth))
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "0: Exit")
	fmt.Fprintln(m.out, "1: Export followings")
	fmt.Fprintln(m.out, rule)
	if m.caveat != "" {
		fmt.Fprintln(m.out, m.caveat)
		fmt.Fprintln(m.out, rule)
	}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func printOutcome(out io.Writer, outcome core.Outcome) {
	c := color.New(color.FgRed)
	switch outcome.Kind {
	case core.OutcomeExported:
		c = color.New(color.FgGreen)
	case core.OutcomeEmptyInput, core.OutcomeInvalidUsername, core.OutcomeNoFollowings:
		c = color.New(color.FgYellow)
	}
	c.Fprintln(out, outcome.Message)
}
