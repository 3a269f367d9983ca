package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

var levels = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
	"FATAL": 4,
}

type Logger struct {
	mu       *sync.Mutex
	output   io.Writer
	minLevel int
	fields   map[string]interface{}
	exit     func(int)
}

type LogEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	File      string      `json:"file,omitempty"`
	Line      int         `json:"line,omitempty"`
	Fields    interface{} `json:"fields,omitempty"`
}

func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, "INFO")
}

func NewLoggerWithWriter(w io.Writer, level string) *Logger {
	minLevel, ok := levels[strings.ToUpper(level)]
	if !ok {
		minLevel = levels["INFO"]
	}

	return &Logger{
		mu:       &sync.Mutex{},
		output:   w,
		minLevel: minLevel,
		exit:     os.Exit,
	}
}

func (l *Logger) log(level, msg string, fields ...interface{}) {
	if levels[level] < l.minLevel {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		File:      file,
		Line:      line,
	}

	fieldMap := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	for key, value := range l.fields {
		fieldMap[key] = value
	}
	if len(fields)%2 == 0 {
		for i := 0; i < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if ok {
				fieldMap[key] = normalize(fields[i+1])
			}
		}
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.output, string(jsonData))
}

// errors marshal to {} otherwise
func normalize(value interface{}) interface{} {
	if err, ok := value.(error); ok {
		return err.Error()
	}
	return value
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.log("DEBUG", msg, fields...)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.log("INFO", msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.log("WARN", msg, fields...)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.log("ERROR", msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.log("FATAL", msg, fields...)
	l.exit(1)
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.WithField("request_id", requestID)
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = normalize(value)

	return &Logger{
		mu:       l.mu,
		output:   l.output,
		minLevel: l.minLevel,
		fields:   fields,
		exit:     l.exit,
	}
}
