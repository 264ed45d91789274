package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Affirmative is the only answer accepted as yes.
const Affirmative = "y"

// Prompter asks yes/no questions on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter returns a Prompter reading answers from in and printing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints prompt and reads one line. Only "y" is a yes; anything
// else, including end of input, is a no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	if _, err := fmt.Fprintln(p.out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	answer := strings.TrimSuffix(line, "\n")
	answer = strings.TrimSuffix(answer, "\r")
	return answer == Affirmative, nil
}
