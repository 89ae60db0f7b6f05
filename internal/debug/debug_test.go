package debug

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestDisabledIsSilent(t *testing.T) {
	buf := captureLog(t)

	Header(false, "parse 1")
	Output(false, "x")
	Record(false, "1", "y")
	Timing(false, "op")()
	Footer(false, "parse 1")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestRecordTagsID(t *testing.T) {
	buf := captureLog(t)

	Header(true, "parse 42")
	Record(true, "42", "matched %s", "po-box")
	Footer(true, "parse 42")

	out := buf.String()
	for _, want := range []string{">>> parse 42", "record=42 matched po-box", "<<< parse 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
