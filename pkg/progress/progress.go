// Package progress renders in-place console progress lines for downloads.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	percentStep  = 5
	maxQuietTime = 10 * time.Second
)

// Reporter writes single-line progress updates, overwriting the previous
// line. Safe for the strictly serialized download flow; not for concurrent use.
type Reporter struct {
	out         io.Writer
	lastLineLen int
	now         func() time.Time
}

// NewReporter writes to out, defaulting to stdout.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out, now: time.Now}
}

// Task tracks one download. Total <= 0 means the size is unknown and only
// byte counts are reported.
type Task struct {
	reporter   *Reporter
	label      string
	total      int64
	downloaded int64
	nextPct    int64
	lastLog    time.Time
}

// StartTask begins reporting for one labeled download.
func (r *Reporter) StartTask(label string, total int64) *Task {
	task := &Task{reporter: r, label: label, total: total, nextPct: percentStep, lastLog: r.now()}
	if total > 0 {
		r.write(fmt.Sprintf("[download] %s 0%% (0/%d bytes)", label, total))
	}
	return task
}

// Add records n more bytes and emits a line at 5%% milestones or after ten
// quiet seconds.
func (t *Task) Add(n int) {
	t.downloaded += int64(n)
	now := t.reporter.now()
	if t.total > 0 {
		pct := t.downloaded * 100 / t.total
		if pct >= t.nextPct {
			t.reporter.write(fmt.Sprintf("[download] %s %d%% (%d/%d bytes)", t.label, pct, t.downloaded, t.total))
			t.nextPct = pct + percentStep
			t.lastLog = now
			return
		}
	}
	if now.Sub(t.lastLog) >= maxQuietTime {
		if t.total > 0 {
			pct := t.downloaded * 100 / t.total
			t.reporter.write(fmt.Sprintf("[download] %s %d%% (%d/%d bytes)", t.label, pct, t.downloaded, t.total))
			if pct+percentStep > t.nextPct {
				t.nextPct = pct + percentStep
			}
		} else {
			t.reporter.write(fmt.Sprintf("[download] %s %d bytes", t.label, t.downloaded))
		}
		t.lastLog = now
	}
}

// Done terminates the progress line with a final summary.
func (t *Task) Done() {
	total := t.total
	if total <= 0 {
		total = t.downloaded
	}
	if t.reporter.lastLineLen > 0 {
		fmt.Fprint(t.reporter.out, "\n")
		t.reporter.lastLineLen = 0
	}
	fmt.Fprintf(t.reporter.out, "[download] Done %s (%d/%d bytes)\n", t.label, total, total)
}

// Abort drops the in-place line without a completion message.
func (t *Task) Abort() {
	if t.reporter.lastLineLen > 0 {
		fmt.Fprint(t.reporter.out, "\n")
		t.reporter.lastLineLen = 0
	}
}

func (r *Reporter) write(message string) {
	pad := r.lastLineLen - len(message)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(r.out, "\r%s%*s", message, pad, "")
	r.lastLineLen = len(message)
}
