package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetSinksKeepsLevel(t *testing.T) {
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	SetLevel(Warning)

	var console, file bytes.Buffer
	SetSinks(&console, &file)

	logger := New("log-test")
	logger.Notice("dropped")
	logger.Warning("kept")

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Fatalf("expected %s sink to filter notice messages; got %q", name, out)
		}
		if !strings.Contains(out, "kept") {
			t.Fatalf("expected %s sink to receive warning message; got %q", name, out)
		}
	}

	if strings.Contains(file.String(), "\x1b[") {
		t.Fatalf("expected file sink output without color escapes; got %q", file.String())
	}
}

func TestSetLevel(t *testing.T) {
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Debug)

	New("log-test").Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Fatalf("expected debug message to be logged; got %q", buf.String())
	}
}
