package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newSetupContext(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestSetup_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, setup(newSetupContext(t, level)))
		})
	}
}

func TestSetup_InvalidLogLevel(t *testing.T) {
	err := setup(newSetupContext(t, "verbose"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestCommands_RequireArguments(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(&cli.App{}, set, nil)

	for name, action := range map[string]cli.ActionFunc{
		"ingest": ingestCommand,
		"search": searchCommand,
		"ask":    askCommand,
	} {
		t.Run(name, func(t *testing.T) {
			err := action(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "usage:")
		})
	}
}
