package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/websketch/websketch/pkg/ops"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"serve", "edit", "analyze", "render", "session", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestDescribeOperation(t *testing.T) {
	tests := []struct {
		name string
		op   ops.Operation
		want string
	}{
		{
			name: "move",
			op:   ops.Operation{Type: ops.OpMove, ComponentID: "button-1", X: ops.Float(10), Y: ops.Float(20)},
			want: "button-1 → (10, 20)",
		},
		{
			name: "resize with missing height",
			op:   ops.Operation{Type: ops.OpResize, ComponentID: "input-1", Width: ops.Float(300)},
			want: "input-1 → 300×·",
		},
		{
			name: "add",
			op:   ops.Operation{Type: ops.OpAdd, ComponentType: "Button", X: ops.Float(50), Y: ops.Float(60)},
			want: "Button at (50, 60)",
		},
		{
			name: "delete",
			op:   ops.Operation{Type: ops.OpDelete, ComponentID: "line-1"},
			want: "line-1",
		},
		{
			name: "align",
			op:   ops.Operation{Type: ops.OpAlign, TargetIDs: []string{"a", "b"}, Alignment: ops.AlignLeft},
			want: "2 components left",
		},
		{
			name: "distribute",
			op:   ops.Operation{Type: ops.OpDistribute, TargetIDs: []string{"a", "b", "c"}},
			want: "3 components",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeOperation(tt.op); got != tt.want {
				t.Errorf("describeOperation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"minutes", now.Add(-30 * time.Minute), "30m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatRelativeTime(old); !strings.Contains(got, ",") {
		t.Errorf("formatRelativeTime() for old timestamp = %q, want absolute date", got)
	}
}
