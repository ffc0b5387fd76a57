package utils

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestSortedFloors(t *testing.T) {
	got := SortedFloors(map[int]bool{7: true, 1: true, 4: true, 3: false})
	if !slices.Equal(got, []int{1, 4, 7}) {
		t.Errorf("SortedFloors = %v", got)
	}
	if got := FormatFloors(map[int]bool{2: true, 0: true}); got != "[0 2]" {
		t.Errorf("FormatFloors = %q", got)
	}
	if got := FormatFloors(nil); got != "[]" {
		t.Errorf("FormatFloors(nil) = %q", got)
	}
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))
	logger.Debug("hidden")
	logger.Info("assigned", "elevator", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "source=utils_test.go:") {
		t.Errorf("expected file:line source, got %q", out)
	}
	if !strings.Contains(out, "elevator=1") {
		t.Errorf("missing attribute in %q", out)
	}
}
