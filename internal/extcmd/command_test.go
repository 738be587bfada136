package extcmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plasticlab/niasflow/internal/core"
)

func TestExecute_Success(t *testing.T) {
	cmd := &Command{Tool: core.ToolMzmine, Path: "sh"}
	result, err := cmd.Execute(context.Background(), []string{"-c", "echo done"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "done") {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
}

func TestExecute_Failure(t *testing.T) {
	cmd := &Command{Tool: core.ToolToxtree, Path: "sh"}
	result, err := cmd.Execute(context.Background(), []string{"-c", "echo bad >&2; exit 3"}, "")
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if !core.IsCategory(err, core.ErrCatExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr.Code != core.CodeExternalFailed {
		t.Fatalf("expected external failure code, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected stderr excerpt in error, got %q", err.Error())
	}
}

func TestExecute_Timeout(t *testing.T) {
	cmd := &Command{Tool: core.ToolSirius, Path: "sleep", Timeout: 50 * time.Millisecond}
	_, err := cmd.Execute(context.Background(), []string{"5"}, "")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr.Code != core.CodeExternalTimeout {
		t.Fatalf("expected distinguished timeout code, got %v", err)
	}
}

func TestExecute_MultiWordPath(t *testing.T) {
	cmd := &Command{Tool: core.ToolClassyfire, Path: "sh -c"}
	result, err := cmd.Execute(context.Background(), []string{"echo multiword"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "multiword") {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
}

func TestExecute_NoPath(t *testing.T) {
	cmd := &Command{Tool: core.ToolMS2LDA}
	if _, err := cmd.Execute(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for unconfigured path")
	}
}

func TestExecute_Stdin(t *testing.T) {
	cmd := &Command{Tool: core.ToolClassyfire, Path: "cat"}
	result, err := cmd.Execute(context.Background(), nil, "CCO\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stdout != "CCO\n" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
}
