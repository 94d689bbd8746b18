package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl  string            `json:"base_url"`
	Username string            `json:"username"`
	Rate     float64           `json:"rate"`
	Headers  map[string]string `json:"headers"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "conf/vzchat.local.json5", LocalPath("conf/vzchat.json5"))
	require.Equal(t, "vzchat.local", LocalPath("vzchat"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vzchat.json5"), `{
		// comments are allowed
		base_url: "https://sexvz.net",
		username: "someone",
		rate: 2,
	}`)
	writeFile(t, filepath.Join(dir, "vzchat.local.json5"), `{
		username: "me",
		headers: {"x": "y"},
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "vzchat.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:  "https://sexvz.net",
		Username: "me",
		Rate:     2,
		Headers:  map[string]string{"x": "y"},
	}, cfg)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vzchat.local.json5"), `{username: "me"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "vzchat.json5"))
	require.NoError(t, err)
	require.Equal(t, "me", cfg.Username)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "vzchat.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vzchat.json5"), `{username: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "vzchat.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0700))
	writeFile(t, filepath.Join(root, "vzchat.json5"), `{username: "found"}`)

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(prev)

	cfg, err := ReadRecursively[testConfig]("vzchat.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.Username)
}
