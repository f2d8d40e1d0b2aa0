package log

import (
	"context"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

func TestGetLoggerFromContextWithName(t *testing.T) {
	var lines []string
	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, prefix+" "+args)
	}, funcr.Options{})

	ctx := ContextWithLogger(context.Background(), sink)
	logger := GetLoggerFromContextWithName(ctx, "chaining")
	logger.Info("resized")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line to be logged, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "chaining") || !strings.Contains(lines[0], `"msg"="resized"`) {
		t.Errorf("logged line: want prefix chaining and msg resized, got: %s", lines[0])
	}
}

func TestGetLoggerFromContextDiscards(t *testing.T) {
	logger := GetLoggerFromContextWithName(context.Background(), "")
	if logger.GetSink() != logr.Discard().GetSink() {
		t.Errorf("expected a discarding logger when the context carries none")
	}
	// must not panic
	logger.WithName("openaddr").V(1).Info("resized")
}
