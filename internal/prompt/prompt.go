package prompt

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.coldcutz.net/mococli/internal/table"
)

var (
	// ErrNoCandidates is returned when a selection is attempted over an empty list.
	ErrNoCandidates = errors.New("nothing to choose from")
	// ErrInputExhausted is returned when the input stream closes while a prompt is waiting.
	ErrInputExhausted = errors.New("input closed before a selection was made")
)

// InvalidIndexMessage is printed after a line that is not a valid index.
const InvalidIndexMessage = "Index invalid"

// Prompter writes tables and prompts to Out and reads answers from In.
type Prompter struct {
	In     LineReader
	Out    io.Writer
	Logger *slog.Logger
}

// New returns a prompter. A nil logger discards log output.
func New(in LineReader, out io.Writer, logger *slog.Logger) *Prompter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prompter{In: in, Out: out, Logger: logger}
}

// Selection describes how candidates are presented in the selection table.
type Selection[T any] struct {
	// Title is printed above the table in interactive mode only.
	Title string
	// Header holds the column titles; the Index column is prepended automatically.
	Header []string
	// Prompt is shown when asking for the index.
	Prompt string
	// Row formats one candidate; the index cell is prepended automatically.
	Row func(c T) []string
	// ID extracts the identifier matched against a preselected id.
	ID func(c T) int64
}

// Select returns the index of the chosen candidate. When preselected is non-nil and matches a
// candidate's ID, that index is returned without any input or output. Otherwise the candidates
// are rendered as a table and the user is asked for an index until a valid one is entered or the
// input ends.
func Select[T any](p *Prompter, candidates []T, s Selection[T], preselected *int64) (int, error) {
	if len(candidates) == 0 {
		return -1, ErrNoCandidates
	}

	if preselected != nil {
		for i, c := range candidates {
			if s.ID(c) == *preselected {
				return i, nil
			}
		}
		p.Logger.Debug("preselected id not among candidates, asking", "id", *preselected, "candidates", len(candidates))
	}

	rows := make([][]string, 0, len(candidates)+1)
	rows = append(rows, append([]string{"Index"}, s.Header...))
	for i, c := range candidates {
		rows = append(rows, append([]string{strconv.Itoa(i)}, s.Row(c)...))
	}
	text, err := table.Render(rows)
	if err != nil {
		return -1, err
	}

	if s.Title != "" {
		fmt.Fprintln(p.Out, s.Title)
	}
	for {
		if _, err := io.WriteString(p.Out, text); err != nil {
			return -1, err
		}
		line, err := p.In.ReadLine(s.Prompt)
		if err != nil {
			if errors.Is(err, ErrInputExhausted) || errors.Is(err, io.EOF) {
				return -1, ErrInputExhausted
			}
			return -1, fmt.Errorf("failed to read selection: %w", err)
		}
		if index, ok := parseIndex(line, len(candidates)); ok {
			return index, nil
		}
		fmt.Fprintln(p.Out, InvalidIndexMessage)
	}
}

// Choose is Select returning the candidate itself.
func Choose[T any](p *Prompter, candidates []T, s Selection[T], preselected *int64) (T, error) {
	i, err := Select(p, candidates, s, preselected)
	if err != nil {
		var zero T
		return zero, err
	}
	return candidates[i], nil
}

func parseIndex(line string, n int) (int, bool) {
	index, err := strconv.ParseUint(strings.TrimSpace(line), 10, 0)
	if err != nil || index >= uint64(n) {
		return 0, false
	}
	return int(index), true
}
