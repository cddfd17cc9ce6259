package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })
	Version = "v1.2.0"
	GitCommit = "abc1234"

	info := GetInfo()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "v1.2.0 (abc1234)", String())
	assert.Contains(t, Full(), "commit: abc1234")
	assert.Equal(t, "carrental-qa/v1.2.0", UserAgent())
}
