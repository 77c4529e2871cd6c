package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("item", "q1").Debug("outcome recorded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "outcome recorded" || entry["item"] != "q1" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", log.GetLevel())
	}

	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message missing")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud", Format: "text"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.LogConfig{Level: "info", Format: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
