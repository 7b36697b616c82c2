package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *log.Logger
	// ErrorLogger logs error messages
	ErrorLogger *log.Logger
	// DebugLogger logs debug messages
	DebugLogger *log.Logger
)

// LogsDir is where the daily log files are written
const LogsDir = "logs"

// InitLogger opens today's info, error and debug files under LogsDir.
// With mirror set every line is also written to stdout.
func InitLogger(mirror bool) error {
	if err := os.MkdirAll(LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	open := func(level string) (io.Writer, error) {
		f, err := os.OpenFile(
			filepath.Join(LogsDir, fmt.Sprintf("%s-%s.log", level, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", level, err)
		}
		if mirror {
			return io.MultiWriter(f, os.Stdout), nil
		}
		return f, nil
	}

	infoOut, err := open("info")
	if err != nil {
		return err
	}
	errorOut, err := open("error")
	if err != nil {
		return err
	}
	debugOut, err := open("debug")
	if err != nil {
		return err
	}

	InfoLogger = log.New(infoOut, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errorOut, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(debugOut, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogRequest logs HTTP request details
func LogRequest(requestID, method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: [%s] %s %s from %s - Status: %d - Duration: %v", requestID, method, path, ip, status, duration)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
