package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// lineReader returns the shared buffered reader over In. The interactive shell and
// the prompts read through the same buffer so neither swallows the other's input.
func (a *AppContext) lineReader() *bufio.Reader {
	if a.lines == nil {
		in := a.In
		if in == nil {
			in = os.Stdin
		}
		a.lines = bufio.NewReader(in)
	}
	return a.lines
}

// readLine reads one line without its trailing newline. io.EOF is returned only
// when nothing was read.
func (a *AppContext) readLine() (string, error) {
	line, err := a.lineReader().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a value unless one was already supplied
func (a *AppContext) prompt(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(a.Out, "%s: ", label)
	line, err := a.readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword asks for a secret, hiding the input when attached to a terminal
func (a *AppContext) promptPassword(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}

	f, ok := a.In.(*os.File)
	if a.In == nil {
		f, ok = os.Stdin, true
	}
	if !ok || !term.IsTerminal(int(f.Fd())) || a.lines != nil && a.lines.Buffered() > 0 {
		return a.prompt(label, "")
	}

	fmt.Fprintf(a.Out, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}
