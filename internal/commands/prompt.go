package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

// readLine prints prompt to the error stream and reads one line from the
// input. EOF with no data yields an empty string.
func readLine(env *Env, prompt string) (string, error) {
	if env.In == nil {
		return "", nil
	}
	fmt.Fprint(env.Err, prompt)
	line, err := bufio.NewReader(env.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword is readLine without echo when the input is a terminal.
// Pipes and other readers fall back to readLine.
func readPassword(env *Env, prompt string) (string, error) {
	f, ok := env.In.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return readLine(env, prompt)
	}
	fmt.Fprint(env.Err, prompt)
	data, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(env.Err)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// confirm asks a yes/no question. Only "y" and "yes" agree.
func confirm(env *Env, question string) bool {
	answer, err := readLine(env, question+" [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
