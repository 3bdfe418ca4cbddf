// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"

	"convscan/core/batch"
)

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// Progress returns an observer that prints "stage done/total" lines to dst,
// or "stage done" when the total is not known yet. It is nil when quiet,
// which batch treats as no observer. batch notifies from the dispatching
// goroutine only, so lines need no locking.
func Progress(dst io.Writer, quiet bool) batch.Observer {
	if quiet {
		return nil
	}
	return func(ev batch.Event) {
		if ev.Total > 0 {
			_, _ = fmt.Fprintf(dst, "progress: %s %d/%d\n", ev.Stage, ev.Done, ev.Total)
			return
		}
		_, _ = fmt.Fprintf(dst, "progress: %s %d\n", ev.Stage, ev.Done)
	}
}
