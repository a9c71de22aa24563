package main

import (
	"bytes"
	"testing"

	"github.com/Harshitk-cp/leaddesk/internal/buildconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LEADDESK_ENV", t.TempDir()+"/missing.env")
	t.Setenv("DATABASE_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, buildconfig.Get().String())
}

func TestCommandsRequireDatabaseURL(t *testing.T) {
	for _, name := range []string{"migrate", "seed-demo"} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL is required")
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "frobnicate")
	assert.Error(t, err)
}
