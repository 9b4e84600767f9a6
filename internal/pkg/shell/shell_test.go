package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lines []string

func (l *lines) ReadLine(prompt string) (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	next := (*l)[0]
	*l = (*l)[1:]
	return next, nil
}

func TestRun_DispatchesUntilExit(t *testing.T) {
	var calls []string
	record := func(name string, err error) Command {
		return Command{Name: name, Usage: name + " usage", Run: func(context.Context) error {
			calls = append(calls, name)
			return err
		}}
	}
	input := lines{"", "restore_users", "bogus arg", "reauth", "backup_users", "exit", "backup_users"}
	var out bytes.Buffer
	logger, hook := test.NewNullLogger()

	sh := New(&input, &out, logger,
		record("backup_users", nil),
		record("restore_users", errors.New("backup file not found")),
		record("reauth", nil),
	)
	require.NoError(t, sh.Run(context.Background()))

	assert.Equal(t, []string{"restore_users", "reauth", "backup_users"}, calls,
		"failed commands do not end the loop and nothing runs after exit")
	assert.Contains(t, out.String(), Intro)
	assert.Contains(t, out.String(), "*** Unknown syntax: bogus arg")
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "restore_users", hook.LastEntry().Data["command"])
}

func TestRun_EndOfInput(t *testing.T) {
	input := lines{}
	sh := New(&input, io.Discard, nil)
	assert.NoError(t, sh.Run(context.Background()))
}

func TestRun_ContextCancelled(t *testing.T) {
	input := lines{"reauth"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(&input, io.Discard, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Help(t *testing.T) {
	input := lines{"help", "? reauth", "help nothing"}
	var out bytes.Buffer

	sh := New(&input, &out, nil,
		Command{Name: "reauth", Usage: "reauthenticate to the Validator API"},
	)
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "Documented commands:")
	assert.Contains(t, out.String(), "reauthenticate to the Validator API")
	assert.Contains(t, out.String(), "*** No help on nothing")
}

func TestExecute(t *testing.T) {
	ran := false
	sh := New(nil, io.Discard, nil, Command{Name: "backup_users", Run: func(context.Context) error {
		ran = true
		return nil
	}})

	require.NoError(t, sh.Execute(context.Background(), "backup_users"))
	assert.True(t, ran)
	assert.Error(t, sh.Execute(context.Background(), "drop_users"))
}
