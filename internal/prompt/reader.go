package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one line of user input after showing a prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PlainReader reads newline-terminated lines from any reader. It is used when stdin is not a
// terminal.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader returns a reader that writes prompts to out and reads lines from in.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine writes prompt and returns the next line without its line terminator. A final line
// without a trailing newline is still returned; once nothing is left ErrInputExhausted is
// returned.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", err
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputExhausted
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadlineReader reads lines through an interactive readline instance.
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader initializes readline on the given streams.
func NewReadlineReader(in io.ReadCloser, out io.Writer) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:  in,
		Stdout: out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &ReadlineReader{rl: rl}, nil
}

// ReadLine shows prompt and reads a line. Ctrl-C and Ctrl-D end the input.
func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrInputExhausted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Close releases the terminal.
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
