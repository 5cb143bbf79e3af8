package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"load", "summary", "infer", "stats", "serve", "menu"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRootCmd_ArgsValidatedBeforeStoresOpen(t *testing.T) {
	for _, args := range [][]string{{"summary"}, {"infer", "a", "b"}, {"stats", "extra"}} {
		root := newRootCmd()
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})

		err := root.Execute()
		require.Error(t, err, "%v", args)
	}
}

func TestLoadCmd_Flags(t *testing.T) {
	cmd := (&cli{}).newLoadCmd()
	for _, flag := range []string{"reset", "nodes", "edges", "json"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
}
