package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// Prompt is shown before each command
	Prompt = "Backup Users> "
	// Intro is printed once when the loop starts
	Intro = "Canton User Backup Utility\nType \"help\" or \"?\" to list commands."
)

// LineReader supplies one line of input per call
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Command is a named action available in the loop
type Command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context) error
}

// Shell is a read-eval-print loop over a fixed set of commands. A failing
// command is logged and the loop keeps going.
type Shell struct {
	reader   LineReader
	out      io.Writer
	logger   log.FieldLogger
	commands []Command
}

// New returns a Shell offering commands in the order given
func New(reader LineReader, out io.Writer, logger log.FieldLogger, commands ...Command) *Shell {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Shell{reader: reader, out: out, logger: logger, commands: commands}
}

// Execute runs the named command once
func (s *Shell) Execute(ctx context.Context, name string) error {
	c, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return c.Run(ctx)
}

// Run loops until "exit", end of input or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, Intro)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.reader.ReadLine(Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		switch name {
		case "exit", "quit":
			return nil
		case "help", "?":
			s.help(fields[1:])
			continue
		}

		c, ok := s.lookup(name)
		if !ok {
			fmt.Fprintf(s.out, "*** Unknown syntax: %s\n", line)
			continue
		}
		if err := c.Run(ctx); err != nil {
			s.logger.WithField("command", name).Error(err)
		}
	}
}

func (s *Shell) lookup(name string) (Command, bool) {
	for _, c := range s.commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

func (s *Shell) help(args []string) {
	if len(args) > 0 {
		if c, ok := s.lookup(args[0]); ok {
			fmt.Fprintln(s.out, c.Usage)
			return
		}
		fmt.Fprintf(s.out, "*** No help on %s\n", args[0])
		return
	}
	fmt.Fprintln(s.out, "Documented commands:")
	for _, c := range s.commands {
		fmt.Fprintf(s.out, "  %-15s %s\n", c.Name, c.Usage)
	}
	fmt.Fprintf(s.out, "  %-15s %s\n", "exit", "exit the utility")
}
