package agent

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// Prompter asks the user questions.
type Prompter interface {
	// Confirm asks a yes/no question. Anything but y or yes is no.
	Confirm(question string) (bool, error)
	// Ask reads one line of free text.
	Ask(question string) (string, error)
}

// LinePrompter reads answers line by line.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter creates a prompter reading from in and printing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

// NewTerminalPrompter prompts on the process's stdin and stdout. It fails
// when stdin is not a terminal, so unattended runs never hang on a question.
func NewTerminalPrompter() (*LinePrompter, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.NewAgentError("stdin is not a terminal", errors.ErrInvalidInput).WithStage("prompt")
	}
	return NewLinePrompter(os.Stdin, os.Stdout), nil
}

func (p *LinePrompter) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Confirm implements Prompter.
func (p *LinePrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	input, err := p.readLine()
	if err != nil {
		return false, err
	}
	input = strings.ToLower(input)
	return input == "y" || input == "yes", nil
}

// Ask implements Prompter.
func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}
