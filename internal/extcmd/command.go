// Package extcmd invokes the external analytical tools as blocking
// subprocess calls with an optional caller-supplied timeout.
package extcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/logging"
)

// Command describes one external collaborator invocation.
type Command struct {
	Tool    core.ToolID
	Path    string // binary location, possibly multi-word ("java -jar x.jar")
	WorkDir string
	// Timeout bounds the invocation; zero means no imposed timeout.
	Timeout time.Duration
	Env     map[string]string
	Logger  *logging.Logger
}

// Result captures a finished invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Execute runs the command and blocks until it finishes, the context is
// canceled, or the timeout expires. Timeouts surface as a distinguished
// ExternalToolError code.
func (c *Command) Execute(ctx context.Context, args []string, stdin string) (*Result, error) {
	if c.Path == "" {
		return nil, core.ErrExternalTool(c.Tool, "collaborator path not configured")
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// Handle multi-word commands ("java -jar toxtree.jar").
	cmdPath := c.Path
	cmdParts := strings.Fields(cmdPath)
	if len(cmdParts) > 1 {
		cmdPath = cmdParts[0]
		args = append(cmdParts[1:], args...)
	}

	// #nosec G204 -- command path and args come from validated config
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	if c.WorkDir != "" {
		cmd.Dir = c.WorkDir
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	logger.Info("executing external tool",
		"tool", c.Tool,
		"path", cmdPath,
		"args", args,
		"work_dir", cmd.Dir,
		"timeout", c.Timeout,
	)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, core.ErrExternalTimeout(c.Tool,
				fmt.Sprintf("timed out after %s", c.Timeout)).WithCause(err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, core.ErrExternalTool(c.Tool,
			fmt.Sprintf("command failed: %s", excerpt(result.Stderr))).WithCause(err)
	}

	logger.Info("external tool finished",
		"tool", c.Tool,
		"duration", result.Duration,
	)
	return result, nil
}

// excerpt trims stderr to a diagnosable size.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[:500] + "... [truncated]"
	}
	if s == "" {
		return "(no stderr)"
	}
	return s
}
