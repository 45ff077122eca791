package tasks

import (
	"strings"

	"viddl/internal/sizespec"
)

// Task is one requested download. Size and TwoFactor are empty when absent.
// Tasks are compared by URL only.
type Task struct {
	URL       string
	Size      string
	TwoFactor string
}

// WantsReencode reports whether the task carries a size budget.
func (t Task) WantsReencode() bool {
	return t.Size != ""
}

// IsURL reports whether s looks like a fetchable URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ParseLine parses one batch-file line of the form "<url> [size] [2fa]".
// The second field is kept as the size only when it resolves; the third
// field, when present, is always the two-factor code.
func ParseLine(line string) (Task, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !IsURL(fields[0]) {
		return Task{}, false
	}
	task := Task{URL: fields[0]}
	if len(fields) > 1 && sizespec.IsSize(fields[1]) {
		task.Size = fields[1]
	}
	if len(fields) > 2 {
		task.TwoFactor = fields[2]
	}
	return task, true
}

// ParseArgs turns positional arguments into tasks. After each URL the next
// token is taken as the size if it resolves, then the following token as the
// two-factor code if it is neither a URL nor a size. Tokens that do not
// follow a URL are ignored.
func ParseArgs(args []string) []Task {
	var out []Task
	for i := 0; i < len(args); {
		if !IsURL(args[i]) {
			i++
			continue
		}
		task := Task{URL: args[i]}
		i++
		if i < len(args) && sizespec.IsSize(args[i]) {
			task.Size = args[i]
			i++
		}
		if i < len(args) && !IsURL(args[i]) && !sizespec.IsSize(args[i]) {
			task.TwoFactor = args[i]
			i++
		}
		out = append(out, task)
	}
	return out
}
