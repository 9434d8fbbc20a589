package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// Logger is the leveled logger shared by the client, orchestrator and
// scheduler. Kept minimal so tests can substitute a recording implementation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// timestampLayout mirrors Python's asctime, which the predecessor system
// used: "2006-01-02 15:04:05,000".
const timestampLayout = "2006-01-02 15:04:05,000"

type fileLogger struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// New opens a rotating file logger at path. The active file rotates at local
// midnight and 7 rotated backups are retained; dated files carry a
// .YYYY-MM-DD suffix and path itself is a symlink to the current file.
func New(path string) (Logger, io.Closer, error) {
	writer, err := newRotateWriter(path, localMidnightClock{})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open log file %s", path)
	}

	return &fileLogger{out: writer, now: time.Now}, writer, nil
}

// newRotateWriter opens the rotating writer. The rotation count includes the
// file currently being written to, so retaining 7 rotated backups needs 8.
func newRotateWriter(path string, clock rotatelogs.Clock) (*rotatelogs.RotateLogs, error) {
	return rotatelogs.New(
		path+".%Y-%m-%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithRotationCount(8),
		rotatelogs.WithClock(clock),
	)
}

// localMidnightClock feeds rotation a zone-shifted time: the 24h rotation
// window is truncated on absolute day boundaries, so presenting local wall
// time as if it were UTC makes those boundaries fall on local midnight.
type localMidnightClock struct{}

func (localMidnightClock) Now() time.Time {
	return shiftToLocal(time.Now())
}

func shiftToLocal(now time.Time) time.Time {
	_, offset := now.Zone()
	return now.UTC().Add(time.Duration(offset) * time.Second)
}

// NewWithWriter wires the logger to an arbitrary writer and clock, used by
// tests and by commands that also want log lines on stderr.
func NewWithWriter(w io.Writer, now func() time.Time) Logger {
	if now == nil {
		now = time.Now
	}
	return &fileLogger{out: w, now: now}
}

func (l *fileLogger) Infof(format string, args ...any)  { l.emit("INFO", format, args...) }
func (l *fileLogger) Warnf(format string, args ...any)  { l.emit("WARNING", format, args...) }
func (l *fileLogger) Errorf(format string, args ...any) { l.emit("ERROR", format, args...) }

// emit writes one "<timestamp>:<level>:<message>" line.
func (l *fileLogger) emit(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s:%s:%s\n", l.now().Format(timestampLayout), level, fmt.Sprintf(format, args...))
}
