package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := GetRootCmd()
	require.NotNil(t, cmd)

	assert.Equal(t, "genie-relay", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestGlobalFlags(t *testing.T) {
	cmd := GetRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
}

func TestServeCommandRegistered(t *testing.T) {
	for _, c := range GetRootCmd().Commands() {
		if c.Use == "serve" {
			return
		}
	}
	t.Fatal("serve command is not registered")
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", GetVersion())
}
