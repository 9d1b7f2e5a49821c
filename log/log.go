// Package log provides the named sub-loggers used throughout tradecore.
//
// Components never call fmt.Println or the stdlib log package directly;
// they log through one of the sub-loggers declared below so that output can
// be filtered and prefixed consistently across the engine.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// SubLogger is a named, independently configurable logging channel.
type SubLogger struct {
	name string
	mu   sync.Mutex
	std  *log.Logger
}

var (
	// Global is the catch-all sub-logger for process lifecycle events.
	Global = newSubLogger("GLOBAL")
	// ExchangeSys carries REST/WS adapter connectivity and error events.
	ExchangeSys = newSubLogger("EXCHANGE")
	// OrderBook carries order-book snapshot/update ingestion events.
	OrderBook = newSubLogger("ORDERBOOK")
	// Balance carries reservation, fill, and conservation-invariant events.
	Balance = newSubLogger("BALANCE")
	// Engine carries exchange-registry and order-lifecycle wiring events.
	Engine = newSubLogger("ENGINE")
)

func newSubLogger(name string) *SubLogger {
	return &SubLogger{
		name: name,
		std:  log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// SetOutput redirects where this sub-logger writes. Tests use this to
// silence or capture output.
func (s *SubLogger) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.std.SetOutput(w)
}

func (s *SubLogger) printf(level, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.std.Printf("[%s] [%s] %s", level, s.name, fmt.Sprintf(format, args...))
}

func (s *SubLogger) println(level string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.std.Printf("[%s] [%s] %s", level, s.name, fmt.Sprintln(args...))
}

// Infoln logs an informational line to sl.
func Infoln(sl *SubLogger, args ...any) { sl.println("INFO", args...) }

// Infof logs a formatted informational line to sl.
func Infof(sl *SubLogger, format string, args ...any) { sl.printf("INFO", format, args...) }

// Warnln logs a warning line to sl.
func Warnln(sl *SubLogger, args ...any) { sl.println("WARN", args...) }

// Warnf logs a formatted warning line to sl.
func Warnf(sl *SubLogger, format string, args ...any) { sl.printf("WARN", format, args...) }

// Errorln logs an error line to sl.
func Errorln(sl *SubLogger, args ...any) { sl.println("ERROR", args...) }

// Error is an alias of Errorln kept for call-site parity with the teacher's
// own logger, which accepts a bare error as the sole argument.
func Error(sl *SubLogger, err error) { sl.println("ERROR", err) }

// Debugln logs a debug line to sl.
func Debugln(sl *SubLogger, args ...any) { sl.println("DEBUG", args...) }
