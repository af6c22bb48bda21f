package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
	WarnLogger  *log.Logger
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Info(format string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	ErrorLogger.Output(2, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	if os.Getenv("ENVIRONMENT") == "development" {
		DebugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

func Warn(format string, v ...interface{}) {
	WarnLogger.Output(2, fmt.Sprintf(format, v...))
}

// Quiet sends everything below Error to w (io.Discard in the terminal client).
func Quiet(w io.Writer) {
	InfoLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
	DebugLogger.SetOutput(w)
}

// LogSessionEvent records session lifecycle changes (open, hydrate, close, expire).
func LogSessionEvent(sessionID string, userID int64, event string) {
	InfoLogger.Output(2, fmt.Sprintf("Session event: event=%s, session=%s, user=%d", event, sessionID, userID))
}

// LogUpstreamFailure records a remote API call that did not produce a usable answer.
func LogUpstreamFailure(method, path string, status int, err error) {
	WarnLogger.Output(2, fmt.Sprintf("API %s %s failed: status=%d, error=%v", method, path, status, err))
}
