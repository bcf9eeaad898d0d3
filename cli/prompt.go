package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"
)

// ErrAborted is returned by a Prompter when the user presses Ctrl+C.
var ErrAborted = errors.New("prompt aborted")

type Prompter interface {
	// Prompt returns io.EOF when input ends.
	Prompt(prompt string) (string, error)
	Close() error
}

type linerPrompter struct {
	line *liner.State
}

func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linerPrompter{line: line}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}

	if input != "" {
		p.line.AppendHistory(input)
	}
	return input, nil
}

func (p *linerPrompter) Close() error {
	return p.line.Close()
}

// scannerPrompter reads lines from a plain reader, used when stdin is not a terminal.
type scannerPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerPrompter(in io.Reader, out io.Writer) Prompter {
	return &scannerPrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *scannerPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *scannerPrompter) Close() error {
	return nil
}
