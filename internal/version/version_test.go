package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.String(), "value-scout dev")
}

func TestGet_ShortCommit(t *testing.T) {
	old := gitCommit
	t.Cleanup(func() { gitCommit = old })

	gitCommit = "0123456789abcdef"
	assert.Equal(t, "0123456", Get().GitCommit)
}

func TestInfo_JSON(t *testing.T) {
	s, err := Get().JSON()
	require.NoError(t, err)

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, Get(), decoded)
}
