package gocascade

import (
	"context"
	"fmt"
	"io"
	"path"
	"runtime"

	rlog "github.com/sirupsen/logrus"
)

type contextKey string

// CSRequestIDKey is context key of request id
const CSRequestIDKey contextKey = "LOG_REQUEST_ID"

// CSSessionIDKey is context key of session id
const CSSessionIDKey contextKey = "LOG_SESSION_ID"

// LogKeys registers string-typed context keys to be written to the logs when
// logger.WithContext is used
var LogKeys = [...]contextKey{CSRequestIDKey, CSSessionIDKey}

// ClientLogContextHook is a client-defined hook that extracts the value to
// log for a registered key from the context. An empty return value skips the
// field.
type ClientLogContextHook func(context.Context) string

var clientLogContextHooks = map[string]ClientLogContextHook{}

// RegisterLogContextHook registers a hook with the logger. Once registered,
// every log line written through logger.WithContext carries the extracted
// value under the given key.
func RegisterLogContextHook(contextKey string, ctxExtractor ClientLogContextHook) {
	clientLogContextHooks[contextKey] = ctxExtractor
}

// CSLogger cascade logger interface which abstracts away the underlying
// logging mechanism. No implementation-specific logging details should leak
// through this interface.
type CSLogger interface {
	rlog.Ext1FieldLogger
	SetLogLevel(level string) error
	GetLogLevel() string
	WithContext(ctx context.Context) *rlog.Entry
	SetOutput(output io.Writer)
}

type defaultLogger struct {
	inner *rlog.Logger
}

// SetLogLevel set logging level for calling defaultLogger
func (log *defaultLogger) SetLogLevel(level string) error {
	actualLevel, err := rlog.ParseLevel(level)
	if err != nil {
		return err
	}
	log.inner.SetLevel(actualLevel)
	return nil
}

// GetLogLevel return current log level
func (log *defaultLogger) GetLogLevel() string {
	return log.inner.GetLevel().String()
}

// WithContext return Entry to include fields in context
func (log *defaultLogger) WithContext(ctx context.Context) *rlog.Entry {
	fields := context2Fields(ctx)
	return log.inner.WithFields(*fields)
}

// SetOutput set the output destination for the logger
func (log *defaultLogger) SetOutput(output io.Writer) {
	log.inner.SetOutput(output)
}

func (log *defaultLogger) WithField(key string, value interface{}) *rlog.Entry {
	return log.inner.WithField(key, value)
}

func (log *defaultLogger) WithFields(fields rlog.Fields) *rlog.Entry {
	return log.inner.WithFields(fields)
}

func (log *defaultLogger) WithError(err error) *rlog.Entry {
	return log.inner.WithError(err)
}

func (log *defaultLogger) Tracef(format string, args ...interface{}) {
	log.inner.Tracef(format, args...)
}

func (log *defaultLogger) Debugf(format string, args ...interface{}) {
	log.inner.Debugf(format, args...)
}

func (log *defaultLogger) Infof(format string, args ...interface{}) {
	log.inner.Infof(format, args...)
}

func (log *defaultLogger) Printf(format string, args ...interface{}) {
	log.inner.Printf(format, args...)
}

func (log *defaultLogger) Warnf(format string, args ...interface{}) {
	log.inner.Warnf(format, args...)
}

func (log *defaultLogger) Warningf(format string, args ...interface{}) {
	log.inner.Warningf(format, args...)
}

func (log *defaultLogger) Errorf(format string, args ...interface{}) {
	log.inner.Errorf(format, args...)
}

func (log *defaultLogger) Fatalf(format string, args ...interface{}) {
	log.inner.Fatalf(format, args...)
}

func (log *defaultLogger) Panicf(format string, args ...interface{}) {
	log.inner.Panicf(format, args...)
}

func (log *defaultLogger) Trace(args ...interface{}) {
	log.inner.Trace(args...)
}

func (log *defaultLogger) Debug(args ...interface{}) {
	log.inner.Debug(args...)
}

func (log *defaultLogger) Info(args ...interface{}) {
	log.inner.Info(args...)
}

func (log *defaultLogger) Print(args ...interface{}) {
	log.inner.Print(args...)
}

func (log *defaultLogger) Warn(args ...interface{}) {
	log.inner.Warn(args...)
}

func (log *defaultLogger) Warning(args ...interface{}) {
	log.inner.Warning(args...)
}

func (log *defaultLogger) Error(args ...interface{}) {
	log.inner.Error(args...)
}

func (log *defaultLogger) Fatal(args ...interface{}) {
	log.inner.Fatal(args...)
}

func (log *defaultLogger) Panic(args ...interface{}) {
	log.inner.Panic(args...)
}

func (log *defaultLogger) Traceln(args ...interface{}) {
	log.inner.Traceln(args...)
}

func (log *defaultLogger) Debugln(args ...interface{}) {
	log.inner.Debugln(args...)
}

func (log *defaultLogger) Infoln(args ...interface{}) {
	log.inner.Infoln(args...)
}

func (log *defaultLogger) Println(args ...interface{}) {
	log.inner.Println(args...)
}

func (log *defaultLogger) Warnln(args ...interface{}) {
	log.inner.Warnln(args...)
}

func (log *defaultLogger) Warningln(args ...interface{}) {
	log.inner.Warningln(args...)
}

func (log *defaultLogger) Errorln(args ...interface{}) {
	log.inner.Errorln(args...)
}

func (log *defaultLogger) Fatalln(args ...interface{}) {
	log.inner.Fatalln(args...)
}

func (log *defaultLogger) Panicln(args ...interface{}) {
	log.inner.Panicln(args...)
}

// CSCallerPrettyfier to provide base file name and function name from calling frame used in CSLogger
func CSCallerPrettyfier(frame *runtime.Frame) (string, string) {
	return path.Base(frame.Function), fmt.Sprintf("%s:%d", path.Base(frame.File), frame.Line)
}

// CreateDefaultLogger return a new instance of CSLogger with default config
func CreateDefaultLogger() CSLogger {
	var rLogger = rlog.New()
	var formatter = rlog.TextFormatter{CallerPrettyfier: CSCallerPrettyfier}
	rLogger.SetReportCaller(true)
	rLogger.SetFormatter(&formatter)
	var ret = defaultLogger{inner: rLogger}
	return &ret
}

// logger is the logger shared by the whole package. It can be swapped with
// SetLogger.
var logger = CreateDefaultLogger()

func init() {
	_ = logger.SetLogLevel("error")
}

// SetLogger set a new logger of CSLogger interface for gocascade
func SetLogger(inLogger *CSLogger) {
	logger = *inLogger
}

// GetLogger return the current logger
func GetLogger() CSLogger {
	return logger
}

func context2Fields(ctx context.Context) *rlog.Fields {
	var fields = rlog.Fields{}
	if ctx == nil {
		return &fields
	}
	for i := 0; i < len(LogKeys); i++ {
		if ctx.Value(LogKeys[i]) != nil {
			fields[string(LogKeys[i])] = ctx.Value(LogKeys[i])
		}
	}
	for key, hook := range clientLogContextHooks {
		if value := hook(ctx); value != "" {
			fields[key] = value
		}
	}
	return &fields
}
