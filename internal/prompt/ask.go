package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validator returns a message describing why input was rejected, or "" to accept it.
type Validator func(input string) string

// Mandatory rejects empty input.
func Mandatory(input string) string {
	if input == "" {
		return "Input is required"
	}
	return ""
}

// OptionalFloat accepts empty input or a decimal number.
func OptionalFloat(input string) string {
	if input == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(input, 64); err != nil {
		return fmt.Sprintf("%q is not a number", input)
	}
	return ""
}

// OptionalDate accepts empty input or a date in the given layout.
func OptionalDate(layout string) Validator {
	return func(input string) string {
		if input == "" {
			return ""
		}
		if _, err := time.Parse(layout, input); err != nil {
			return fmt.Sprintf("%q is not a date (YYYY-MM-DD)", input)
		}
		return ""
	}
}

// Ask asks question until validate accepts the answer. A nil validator accepts anything.
func (p *Prompter) Ask(question string, validate Validator) (string, error) {
	for {
		line, err := p.In.ReadLine(question)
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if validate == nil {
			return line, nil
		}
		msg := validate(line)
		if msg == "" {
			return line, nil
		}
		fmt.Fprintln(p.Out, msg)
	}
}

// AskDefault asks question and returns def when the answer is empty.
func (p *Prompter) AskDefault(question, def string, validate Validator) (string, error) {
	answer, err := p.Ask(question, validate)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskDate asks for a date in layout and returns def when the answer is empty.
func (p *Prompter) AskDate(question, layout string, def time.Time) (time.Time, error) {
	answer, err := p.Ask(question, OptionalDate(layout))
	if err != nil {
		return time.Time{}, err
	}
	if answer == "" {
		return def, nil
	}
	return time.ParseInLocation(layout, answer, def.Location())
}

// AskHours asks for a number of hours and returns def when the answer is empty.
func (p *Prompter) AskHours(question string, def float64) (float64, error) {
	answer, err := p.Ask(question, OptionalFloat)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}
	return strconv.ParseFloat(answer, 64)
}
