package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTaskMilestones(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	task := reporter.StartTask("paper.pdf", 100)
	task.Add(4)
	if strings.Contains(buf.String(), "4%") {
		t.Fatal("line emitted below the 5% milestone")
	}
	task.Add(6)
	if !strings.Contains(buf.String(), "10%") {
		t.Fatalf("missing 10%% milestone: %q", buf.String())
	}
	task.Add(90)
	task.Done()
	if !strings.Contains(buf.String(), "Done paper.pdf (100/100 bytes)") {
		t.Fatalf("missing completion line: %q", buf.String())
	}
}

func TestTaskUnknownTotalReportsOnQuietTime(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	current := time.Now()
	reporter.now = func() time.Time { return current }

	task := reporter.StartTask("archive.zip", -1)
	task.Add(500)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output before quiet time: %q", buf.String())
	}

	current = current.Add(11 * time.Second)
	task.Add(500)
	if !strings.Contains(buf.String(), "1000 bytes") {
		t.Fatalf("missing byte count line: %q", buf.String())
	}

	task.Done()
	if !strings.Contains(buf.String(), "Done archive.zip (1000/1000 bytes)") {
		t.Fatalf("missing completion line: %q", buf.String())
	}
}

func TestAbortDropsLineQuietly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	task := reporter.StartTask("paper.pdf", 100)
	task.Add(50)
	task.Abort()
	if strings.Contains(buf.String(), "Done") {
		t.Fatalf("abort must not claim completion: %q", buf.String())
	}
}
