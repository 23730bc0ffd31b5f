package debugger

import (
	"strings"
	"sync"
)

// commandAliases maps the debugger's short command letters to their
// canonical verb, mirroring the dispatch table in Debugger.ExecuteCommand
// (debugger.go). History is recorded under the canonical verb so that
// recalling or searching past commands lines up regardless of which form
// the operator typed ("s" and "step" land as the same history entry).
var commandAliases = map[string]string{
	"b": "break",
	"d": "delete",
	"s": "step",
	"c": "continue",
	"i": "info",
	"h": "help",
	"?": "help",
}

// canonicalizeCommand rewrites cmd's verb to its canonical form (e.g.
// "s" -> "step", "b 16" -> "break 16"), leaving unrecognized verbs and
// all arguments unchanged; runs of whitespace between words are
// collapsed to single spaces in either case.
func canonicalizeCommand(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return cmd
	}
	if canon, ok := commandAliases[strings.ToLower(parts[0])]; ok {
		parts[0] = canon
	}
	return strings.Join(parts, " ")
}

// historyEntry is one executed debugger command, tagged with the IR
// instruction pointer it ran at — lets a session review answer "what ran
// right before this breakpoint fired" instead of just "what was typed".
type historyEntry struct {
	Command string
	IP      int
}

// CommandHistory maintains a history of executed debugger commands.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []historyEntry
	maxSize  int
	position int // Current position in history for navigation
}

// NewCommandHistory creates a new command history.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{
		commands: make([]historyEntry, 0, 100),
		maxSize:  1000, // Keep last 1000 commands
		position: 0,
	}
}

// Add records cmd, canonicalized to its full verb, as having run at ip
// (the interpreter's IP at the time ExecuteCommand dispatched it).
func (h *CommandHistory) Add(cmd string, ip int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Don't add empty commands or duplicates of the last command
	if cmd == "" {
		return
	}
	cmd = canonicalizeCommand(cmd)

	if len(h.commands) > 0 && h.commands[len(h.commands)-1].Command == cmd {
		h.position = len(h.commands)
		return
	}

	h.commands = append(h.commands, historyEntry{Command: cmd, IP: ip})

	// Trim if exceeds max size
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}

	// Reset position to end
	h.position = len(h.commands)
}

// Previous returns the previous command in history.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}

	h.position--
	return h.commands[h.position].Command
}

// Next returns the next command in history.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}

	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}

	h.position++
	return h.commands[h.position].Command
}

// GetLast returns the last command (without changing position).
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}

	return h.commands[len(h.commands)-1].Command
}

// GetLastIP returns the IP the last command ran at, or -1 when history is
// empty.
func (h *CommandHistory) GetLastIP() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return -1
	}

	return h.commands[len(h.commands)-1].IP
}

// GetAll returns all commands in history.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	for i, entry := range h.commands {
		result[i] = entry.Command
	}
	return result
}

// Clear clears the command history.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = h.commands[:0]
	h.position = 0
}

// Size returns the number of commands in history.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}

// Search returns commands whose canonical form starts with prefix (itself
// canonicalized, so searching "b" matches history recorded as "break").
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	prefix = canonicalizeCommand(prefix)

	var results []string
	for _, entry := range h.commands {
		if len(entry.Command) >= len(prefix) && entry.Command[:len(prefix)] == prefix {
			results = append(results, entry.Command)
		}
	}

	return results
}
