package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	require.NoError(t, Init())

	assert.Equal(t, "neetcode.txt", GetInput())
	assert.Equal(t, filepath.Join("src", "data", "neetcodeData.js"), GetOutput())
	assert.Equal(t, "studymd.db", GetDB())
	assert.Equal(t, ":8080", GetAddr())
	assert.Equal(t, "info", GetLogLevel())
	assert.Equal(t, "36", GetColorCategory())
}

func TestInitReadsConfigFileAndEnv(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studymd.yaml"), []byte("input: guide.txt\naddr: \":9090\"\n"), 0o644))
	t.Setenv("STUDYMD_DB", "/tmp/other.db")

	require.NoError(t, Init())

	assert.Equal(t, "guide.txt", GetInput())
	assert.Equal(t, ":9090", GetAddr())
	assert.Equal(t, "/tmp/other.db", GetDB())
	assert.Equal(t, "guide.txt", C.Input)
}

func TestSetters(t *testing.T) {
	viper.Reset()
	SetInput("a.txt")
	SetOutput("b.js")
	assert.Equal(t, "a.txt", GetInput())
	assert.Equal(t, "b.js", GetOutput())
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "guides/n.txt"), expandTilde("~/guides/n.txt"))
	assert.Equal(t, "rel/n.txt", expandTilde("rel/n.txt"))
	assert.Equal(t, "", expandTilde(""))
}
