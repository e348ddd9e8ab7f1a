package repos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Filters(t *testing.T) {
	f := FilterByScenario("biased-coin")
	assert.Equal(t, "runs.scenario = ?", f.SQL)
	assert.Equal(t, []any{"biased-coin"}, f.Args)

	f = FilterByNode("local-laptop")
	assert.Equal(t, "runs.node = ?", f.SQL)
	assert.Equal(t, []any{"local-laptop"}, f.Args)

	f = RawFilter("runs.draws > 1000")
	assert.Equal(t, "runs.draws > 1000", f.SQL)
	assert.Empty(t, f.Args)
}
