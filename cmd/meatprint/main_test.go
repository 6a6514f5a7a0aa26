package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greenledger/meatprint/internal/cli"
	"github.com/greenledger/meatprint/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "meatprint", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)

		names := make([]string, 0, len(root.Commands()))
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}
		assert.Subset(t, names, []string{"analyze", "explain", "rules", "config"})
	})

	t.Run("run function exists", func(t *testing.T) {
		_ = run
	})
}
