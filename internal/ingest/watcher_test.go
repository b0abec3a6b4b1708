package ingest

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDeliver(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	ch := make(chan string, 1)

	if !deliver(ch, "/inbox/card1_front.jpg", logger) {
		t.Fatal("deliver to an empty channel must succeed")
	}
	if logs.Len() != 0 {
		t.Errorf("successful delivery must not log, got %s", logs.String())
	}

	// Channel now full: the path is dropped, and the drop is logged.
	if deliver(ch, "/inbox/card2_front.jpg", logger) {
		t.Fatal("deliver to a full channel must report failure")
	}
	if !strings.Contains(logs.String(), "ingest.watch.dropped") {
		t.Errorf("drop not logged, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), "card2_front.jpg") {
		t.Errorf("dropped path missing from log, got %s", logs.String())
	}

	if got := <-ch; got != "/inbox/card1_front.jpg" {
		t.Errorf("delivered path = %q", got)
	}
}
