package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/bcambl/cub/internal/pkg/config"
)

// Terminal asks questions on a line-oriented console. The command loop
// reads from the same buffered reader so typed-ahead input is not lost.
type Terminal struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

// New returns a Terminal reading from in and writing prompts to out. Secrets
// are read as plain lines.
func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out}
	t.readSecret = func() (string, error) { return t.readLine() }
	return t
}

// NewStdio returns a Terminal on the process stdin/stdout. When stdin is a
// terminal the client secret is read without echo.
func NewStdio() *Terminal {
	t := New(os.Stdin, os.Stdout)
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		t.readSecret = func() (string, error) {
			p, err := terminal.ReadPassword(int(fd))
			fmt.Fprintln(t.out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(p)), nil
		}
	}
	return t
}

// ReadLine prints prompt and returns the next trimmed line. io.EOF is
// returned once input is exhausted.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskNetwork asks until one of config.Networks is entered
func (t *Terminal) AskNetwork() (string, error) {
	fmt.Fprintln(t.out, "Please select a network:")
	fmt.Fprintf(t.out, "Available Networks: %s\n", strings.Join(config.Networks, ", "))
	for {
		answer, err := t.ReadLine("Network: ")
		if err != nil {
			return "", err
		}
		network := strings.ToLower(answer)
		if config.ValidNetwork(network) {
			return network, nil
		}
		fmt.Fprintf(t.out, "Invalid Network, network must be one of: %s\n", strings.Join(config.Networks, ", "))
	}
}

// AskFilename offers def and returns it for an empty answer
func (t *Terminal) AskFilename(def string) (string, error) {
	fmt.Fprintln(t.out, "Please select a filename:")
	answer, err := t.ReadLine(fmt.Sprintf("Backup Filename [default: %s]: ", def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// ConfirmOverwrite returns true only for a "y" answer
func (t *Terminal) ConfirmOverwrite(path string) (bool, error) {
	fmt.Fprintf(t.out, "Backup file %s already exists\n", path)
	answer, err := t.ReadLine("Overwrite? (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

// AskSecret asks for the client secret of clientID
func (t *Terminal) AskSecret(clientID string) (string, error) {
	fmt.Fprintln(t.out, "Client credentials can be retrieved from Keycloak.")
	fmt.Fprintln(t.out, "Please enter your client credentials:")
	fmt.Fprintf(t.out, "%s Client Secret: ", clientID)
	return t.readSecret()
}
