package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/changemaker/internal/domain"
)

func TestParseRegister(t *testing.T) {
	reg, err := parseRegister("5:2, 10:1,")
	require.NoError(t, err)
	assert.Equal(t, domain.Register{{Denom: 5, Count: 2}, {Denom: 10, Count: 1}}, reg)

	_, err = parseRegister("5-2")
	assert.Error(t, err)
	_, err = parseRegister("5:x")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-register", "5:2,10:1", "-amount", "20"}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "2 × 5c")
	assert.Contains(t, out.String(), "1 × 10c")
	assert.Contains(t, out.String(), "coins: 3")
}

func TestRunFailureExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-register", "5:1,20:1", "-amount", "10", "-debug"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "NoExactSolution")
	assert.Contains(t, out.String(), "naive: 2 coins")
}

func TestRunFromStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Coin Register (denom,count)\n100,3\n25,4\n"), 0o644))

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-state", path, "-amount", "150", "-json"}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), `"success": true`)
}

func TestRunZeroAmountJSONListsEmptyChange(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-register", "1:100", "-amount", "0", "-json"}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), `"change": []`)
	assert.Contains(t, out.String(), `"coinUsage": {}`)
}

func TestRunUsageErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-amount", "5"}, &out, &errOut))
	assert.Equal(t, 2, run(context.Background(), []string{"-register", "5:1", "-state", "x", "-amount", "5"}, &out, &errOut))
	assert.Equal(t, 2, run(context.Background(), []string{"-register", "5:1,5:2", "-amount", "5"}, &out, &errOut))
}
