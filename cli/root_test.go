package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/scriptctx/engine/timer"
	"github.com/compozy/scriptctx/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should inject YAML config with flag overrides into the context", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "scriptctx.yaml", "normalization:\n  key_policy: none\n  max_depth: 12\n")
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--key-policy", "lower_camel"}))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		assert.Equal(t, "lower_camel", cfg.Normalization.KeyPolicy)
		assert.Equal(t, 12, cfg.Normalization.MaxDepth)
	})

	t.Run("Should read variables from the env file", func(t *testing.T) {
		dir := t.TempDir()
		envPath := writeFile(t, dir, "test.env", "CONDITION_CACHE_SIZE=42\n")
		t.Cleanup(func() { _ = os.Unsetenv("CONDITION_CACHE_SIZE") })
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", envPath}))

		require.NoError(t, SetupGlobalConfig(cmd))

		assert.Equal(t, 42, config.FromContext(cmd.Context()).Condition.CacheSize)
	})

	t.Run("Should ignore a missing env file", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}))
		assert.NoError(t, SetupGlobalConfig(cmd))
	})

	t.Run("Should fail on an invalid key policy", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--key-policy", "snake"}))
		assert.Error(t, SetupGlobalConfig(cmd))
	})
}

func TestMergeCmd(t *testing.T) {
	t.Run("Should normalize and merge documents left to right", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.json", `{"Customer":{"Name":"Ada","Tags":["a"]},"Total":1}`)
		b := writeFile(t, dir, "b.yaml", "Customer:\n  Tags: [b]\n  City: Paris\nTotal: 2\n")

		out, err := run(t, "merge", a, b, "--output", "json")
		require.NoError(t, err)
		assert.Equal(t,
			`{"customer":{"name":"Ada","tags":["a","b"],"city":"Paris"},"total":2}`,
			strings.TrimSpace(out),
		)
	})

	t.Run("Should honor the key policy flag", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.json", `{"Order_ID":7}`)

		out, err := run(t, "merge", a, "--key-policy", "none", "--output", "json")
		require.NoError(t, err)
		assert.Equal(t, `{"Order_ID":7}`, strings.TrimSpace(out))
	})

	t.Run("Should fail on malformed input", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.json", `{"broken"`)

		_, err := run(t, "merge", a, "--output", "json")
		assert.ErrorContains(t, err, "failed to decode")
	})
}

func TestEvalCmd(t *testing.T) {
	t.Run("Should evaluate a condition against body and headers", func(t *testing.T) {
		dir := t.TempDir()
		body := writeFile(t, dir, "body.json", `{"Score":720,"Status":"approved"}`)

		out, err := run(t, "eval", `body.score > 700 && headers["x-tenant"] == "acme"`,
			"--body", body, "--header", "X-Tenant=acme")
		require.NoError(t, err)
		assert.Equal(t, "true", strings.TrimSpace(out))
	})

	t.Run("Should reject non boolean expressions", func(t *testing.T) {
		_, err := run(t, "eval", `"yes"`)
		assert.Error(t, err)
	})
}

func TestNextCmd(t *testing.T) {
	t.Run("Should list cron fire times", func(t *testing.T) {
		out, err := run(t, "next", "--cron", "@hourly", "--count", "3")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		first, err := time.Parse(time.RFC3339, lines[0])
		require.NoError(t, err)
		second, err := time.Parse(time.RFC3339, lines[1])
		require.NoError(t, err)
		assert.Equal(t, time.Hour, second.Sub(first))
	})

	t.Run("Should print a single time for delays", func(t *testing.T) {
		out, err := run(t, "next", "--after", "90s", "--count", "3")
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
	})

	t.Run("Should require a schedule flag", func(t *testing.T) {
		_, err := run(t, "next")
		assert.Error(t, err)
	})
}

func TestFireTimes(t *testing.T) {
	t.Run("Should stop after one absolute time", func(t *testing.T) {
		at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		got := fireTimes(timer.At(at), time.Now(), 4)
		assert.Equal(t, []time.Time{at}, got)
	})
}
