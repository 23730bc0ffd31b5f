package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandHistoryAdd(t *testing.T) {
	h := NewCommandHistory()

	h.Add("step", 0)
	h.Add("continue", 1)
	h.Add("break 16", 1)

	assert.Equal(t, 3, h.Size())
	assert.Equal(t, []string{"step", "continue", "break 16"}, h.GetAll())
}

func TestCommandHistoryCanonicalizesAliases(t *testing.T) {
	h := NewCommandHistory()

	h.Add("s", 0)
	h.Add("b 16", 0)
	h.Add("c", 0)

	assert.Equal(t, []string{"step", "break 16", "continue"}, h.GetAll())
}

func TestCommandHistoryIgnoreEmpty(t *testing.T) {
	h := NewCommandHistory()

	h.Add("step", 0)
	h.Add("", 0)
	h.Add("continue", 0)

	assert.Equal(t, 2, h.Size())
}

func TestCommandHistoryIgnoreDuplicates(t *testing.T) {
	h := NewCommandHistory()

	h.Add("step", 0)
	h.Add("step", 0)
	h.Add("continue", 0)

	assert.Equal(t, 2, h.Size())
	assert.Equal(t, []string{"step", "continue"}, h.GetAll())
}

func TestCommandHistoryIgnoreDuplicatesAcrossAliasForms(t *testing.T) {
	h := NewCommandHistory()

	h.Add("step", 0)
	h.Add("s", 0)
	h.Add("continue", 0)

	assert.Equal(t, 2, h.Size())
	assert.Equal(t, []string{"step", "continue"}, h.GetAll())
}

func TestCommandHistoryPreviousAndNext(t *testing.T) {
	h := NewCommandHistory()
	h.Add("cmd1", 0)
	h.Add("cmd2", 0)
	h.Add("cmd3", 0)

	assert.Equal(t, "cmd3", h.Previous())
	assert.Equal(t, "cmd2", h.Previous())
	assert.Equal(t, "cmd1", h.Previous())
	assert.Equal(t, "", h.Previous())

	assert.Equal(t, "cmd2", h.Next())
	assert.Equal(t, "cmd3", h.Next())
	assert.Equal(t, "", h.Next())
}

func TestCommandHistoryGetLast(t *testing.T) {
	h := NewCommandHistory()
	h.Add("cmd1", 0)
	h.Add("cmd2", 0)

	assert.Equal(t, "cmd2", h.GetLast())
	assert.Equal(t, "cmd2", h.GetLast(), "GetLast must not change position")
}

func TestCommandHistoryGetLastIP(t *testing.T) {
	h := NewCommandHistory()

	assert.Equal(t, -1, h.GetLastIP())

	h.Add("break 16", 3)
	h.Add("continue", 7)

	assert.Equal(t, 7, h.GetLastIP())
}

func TestCommandHistoryClear(t *testing.T) {
	h := NewCommandHistory()
	h.Add("cmd1", 0)
	h.Add("cmd2", 0)

	h.Clear()

	assert.Zero(t, h.Size())
	assert.Equal(t, "", h.GetLast())
	assert.Equal(t, -1, h.GetLastIP())
}

func TestCommandHistorySearch(t *testing.T) {
	h := NewCommandHistory()
	h.Add("break 16", 0)
	h.Add("break 32", 0)
	h.Add("step", 0)
	h.Add("continue", 0)

	assert.Equal(t, []string{"break 16", "break 32"}, h.Search("break"))
	assert.Empty(t, h.Search("watch"))
}

func TestCommandHistorySearchCanonicalizesPrefix(t *testing.T) {
	h := NewCommandHistory()
	h.Add("b 16", 0)
	h.Add("b 32", 0)
	h.Add("step", 0)

	assert.Equal(t, []string{"break 16", "break 32"}, h.Search("b"))
}

func TestCommandHistoryMaxSize(t *testing.T) {
	h := NewCommandHistory()
	for i := 0; i < 1100; i++ {
		if i%2 == 0 {
			h.Add("step", i)
		} else {
			h.Add("continue", i)
		}
	}

	assert.LessOrEqual(t, h.Size(), 1000)
}

func TestCommandHistoryEmptyHistory(t *testing.T) {
	h := NewCommandHistory()

	assert.Zero(t, h.Size())
	assert.Equal(t, "", h.GetLast())
	assert.Equal(t, "", h.Previous())
	assert.Equal(t, "", h.Next())
	assert.Equal(t, -1, h.GetLastIP())
}
