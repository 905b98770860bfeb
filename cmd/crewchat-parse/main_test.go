package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRunFromStdin(t *testing.T) {
	out := runCmd(t, "Hi!\n```tool_call\n{\"name\": \"search_legs\", \"arguments\": {}}\n```")
	assert.Contains(t, out, `"content": "Hi!"`)
	assert.Contains(t, out, `"name": "search_legs"`)
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	require.NoError(t, os.WriteFile(path, []byte(`<tool_call>{"name": "get_weather", "arguments": {}}</tool_call>`), 0o644))

	out := runCmd(t, "", path)
	assert.Contains(t, out, `"name": "get_weather"`)
}

func TestRunMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.txt")})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRunSanitizeFlag(t *testing.T) {
	input := "Done.\n{\"name\": \"x\", \"arguments\": {}}\n```tool_call\n{\"name\": \"search_legs\", \"arguments\": {}}\n```"
	out := runCmd(t, input, "--sanitize")
	assert.Contains(t, out, `"name": "search_legs"`)
	assert.NotContains(t, out, `\"name\": \"x\"`)
}
