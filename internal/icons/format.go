package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// FilePlaceholder is replaced with the written file's path in a formatter
// command.
const FilePlaceholder = "{file}"

// Formatter post-processes a generated file after it has been written.
type Formatter interface {
	Format(ctx context.Context, path string) error
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, path string) error

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, path string) error {
	return f(ctx, path)
}

// NopFormatter leaves files untouched.
var NopFormatter Formatter = nopFormatter{}

type nopFormatter struct{}

func (nopFormatter) Format(context.Context, string) error { return nil }

func isNop(f Formatter) bool {
	_, ok := f.(nopFormatter)
	return ok
}

// ExecFormatter runs an external command on each written file, e.g.
// prettier --write {file} --ignore-unknown.
type ExecFormatter struct {
	// Command is the program and its arguments. Occurrences of {file} are
	// replaced by the path; without a placeholder the path is appended.
	Command []string
	// Dir is the working directory for the command. Empty means the
	// current directory.
	Dir string
}

// NewExecFormatter returns NopFormatter when command is empty.
func NewExecFormatter(command []string, dir string) Formatter {
	if len(command) == 0 {
		return NopFormatter
	}
	return &ExecFormatter{Command: command, Dir: dir}
}

// Format runs the command and includes its output in any error.
func (f *ExecFormatter) Format(ctx context.Context, path string) error {
	args := f.args(path)
	if len(args) == 0 {
		return errors.New("formatter command is empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command comes from project config
	cmd.Dir = f.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("format %s with %s: %w: %s", path, args[0], err, msg)
		}
		return fmt.Errorf("format %s with %s: %w", path, args[0], err)
	}
	return nil
}

func (f *ExecFormatter) args(path string) []string {
	args := make([]string, 0, len(f.Command)+1)
	replaced := false
	for _, a := range f.Command {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced && len(args) > 0 {
		args = append(args, path)
	}
	return args
}
