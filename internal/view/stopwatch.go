package view

import (
	"fmt"
	"io"
	"time"
)

// Stopwatch is the fallback widget: a clock that started with the process
// and never stops.
type Stopwatch struct {
	started time.Time
	now     func() time.Time
}

func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{started: now(), now: now}
}

func (s *Stopwatch) Elapsed() time.Duration {
	return s.now().Sub(s.started)
}

// FormatElapsed renders a duration as HH:MM:SS. Hours keep growing past 99.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

func (s *Stopwatch) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "stopwatch", struct {
		StartedUnixMilli int64
		Elapsed          string
	}{
		StartedUnixMilli: s.started.UnixMilli(),
		Elapsed:          FormatElapsed(s.Elapsed()),
	})
}
