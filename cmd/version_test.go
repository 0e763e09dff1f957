package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBuildInfoPrefersLdflagsVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "1.2.0"
	info := readBuildInfo()
	assert.Equal(t, "1.2.0", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestBuildInfoString(t *testing.T) {
	b := buildInfo{Version: "1.2.0", Revision: "abc123def456", Modified: true, GoVersion: "go1.24.11"}
	assert.Equal(t, "ventas 1.2.0 (rev abc123def456-dirty, go1.24.11)", b.String())
}
