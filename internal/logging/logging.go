// Package logging is the leveled stderr logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level orders log messages by severity.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Critical
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

var levelColors = [...]*color.Color{
	color.New(color.FgBlue),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgRed),
	color.New(color.FgRed, color.Bold),
}

func (l Level) String() string {
	if l < Debug || l > Critical {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), nil
		}
	}
	return Info, fmt.Errorf("unknown log level %q", name)
}

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	level            = Info
	now              = time.Now
)

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetLevel drops messages below l.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return l >= level
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	name := fmt.Sprintf("%-8s", l.String())
	if l >= Debug && l <= Critical {
		name = levelColors[l].Sprint(name)
	}
	fmt.Fprintf(out, "%s %s %s\n", now().Format("15:04:05"), name, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any)    { logf(Debug, format, args...) }
func Infof(format string, args ...any)     { logf(Info, format, args...) }
func Warnf(format string, args ...any)     { logf(Warning, format, args...) }
func Errorf(format string, args ...any)    { logf(Error, format, args...) }
func Criticalf(format string, args ...any) { logf(Critical, format, args...) }
