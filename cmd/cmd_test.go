package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raptacon/Robot-2020/test/util"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	robots, err := filepath.Abs("../robotConfigs")
	require.NoError(t, err)
	dir := util.WriteFiles(t, map[string]string{
		"config.yaml": "robot:\n  config_dir: " + robots + "\n  marker: " + filepath.Join(t.TempDir(), "none") + "\nlogging:\n  level: warn\n",
	})
	return filepath.Join(dir, "config.yaml")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { variantFlag = "" })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "check", "-c", writeConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "doof")
	assert.Contains(t, out, "scorpion")
	assert.Contains(t, out, "minibot")
	assert.NotContains(t, out, "FAIL")
}

func TestVariantCommand(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "variant", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "doof\n", out)

	out, err = execute(t, "variant", "-c", cfg, "--variant", "Scorpion")
	require.NoError(t, err)
	assert.Equal(t, "scorpion\n", out)
}

func TestVariantEnv(t *testing.T) {
	t.Setenv(VariantEnv, "minibot")
	out, err := execute(t, "variant", "-c", writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "minibot\n", out)
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "check", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "load config")
}
