package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// DateLayout is the format accepted for dates typed by the user.
const DateLayout = "2006-01-02"

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetRequiredText repeats the prompt until a non-empty line is entered.
func GetRequiredText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	for {
		s, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		fmt.Fprintln(w, "A value is required.")
	}
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetChoice repeats the prompt until one of options (or "" when def is set)
// is entered. An empty answer selects def.
func GetChoice(reader *bufio.Reader, prompt string, options []string, def string, w io.Writer) (string, error) {
	label := fmt.Sprintf("%s [%s]", prompt, strings.Join(options, "/"))
	if def != "" {
		label += fmt.Sprintf(" (default %s)", def)
	}
	for {
		s, err := GetSimpleText(reader, label, w)
		if err != nil {
			return "", err
		}
		if s == "" && def != "" {
			return def, nil
		}
		for _, o := range options {
			if strings.EqualFold(s, o) {
				return o, nil
			}
		}
		fmt.Fprintln(w, "Please choose one of:", strings.Join(options, ", "))
	}
}

// GetYesNo returns true for "y" or "yes".
func GetYesNo(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	s, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// GetOptionalFloat returns nil for an empty answer.
func GetOptionalFloat(reader *bufio.Reader, prompt string, w io.Writer) (*float64, error) {
	for {
		s, err := GetSimpleText(reader, prompt+" (optional)", w)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && v >= 0 {
			return &v, nil
		}
		fmt.Fprintln(w, "Please enter a non-negative number.")
	}
}

// GetOptionalDate reads a DateLayout date; empty means nil.
func GetOptionalDate(reader *bufio.Reader, prompt string, w io.Writer) (*time.Time, error) {
	for {
		s, err := GetSimpleText(reader, prompt+" (YYYY-MM-DD, optional)", w)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		d, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err == nil {
			return &d, nil
		}
		fmt.Fprintln(w, "Please enter a date as YYYY-MM-DD.")
	}
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
