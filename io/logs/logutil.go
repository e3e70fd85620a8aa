// Package logs creates a logrus file logger instance that
// writes all logs that are written to stdout.
package logs

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	joonix "github.com/joonix/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Supported log file formats.
const (
	FormatText    = "text"
	FormatFluentd = "fluentd"
	FormatJSON    = "json"
)

var _ = logrus.Hook(&WriterHook{})

// WriterHook is a hook that writes logs of specified LogLevels to specified Writer.
type WriterHook struct {
	LogLevels []logrus.Level
	Formatter logrus.Formatter
	Writer    io.Writer

	mu sync.Mutex
}

// Fire will be called when some logging function is called with current hook.
// It formats the entry with the hook's own formatter and writes it out.
func (hook *WriterHook) Fire(entry *logrus.Entry) error {
	line, err := hook.Formatter.Format(entry)
	if err != nil {
		return err
	}
	hook.mu.Lock()
	defer hook.mu.Unlock()
	_, err = hook.Writer.Write(line)
	return err
}

// Levels defines on which log levels this hook would trigger.
func (hook *WriterHook) Levels() []logrus.Level {
	return hook.LogLevels
}

// Formatter returns the file formatter for the given format name.
func Formatter(format string) (logrus.Formatter, error) {
	switch format {
	case FormatText:
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = "2006-01-02 15:04:05"
		formatter.FullTimestamp = true
		formatter.DisableColors = true
		return formatter, nil
	case FormatFluentd:
		return joonix.NewFormatter(), nil
	case FormatJSON:
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("unknown log file format %v", format)
	}
}

// ConfigurePersistentLogging adds a log-to-file writer hook to the logrus logger. The writer hook appends new
// logs to the specified log file, creating its parent directory if needed.
func ConfigurePersistentLogging(logFileName string, logFileFormatName string) error {
	formatter, err := Formatter(logFileFormatName)
	if err != nil {
		return err
	}
	logrus.WithField("logFileName", logFileName).Info("Logs will be made persistent")
	if err := os.MkdirAll(filepath.Dir(logFileName), 0700); err != nil {
		return errors.Wrap(err, "could not create log directory")
	}
	f, err := os.OpenFile(filepath.Clean(logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	logrus.AddHook(&WriterHook{
		LogLevels: logrus.AllLevels,
		Formatter: formatter,
		Writer:    f,
	})

	logrus.Info("File logger initialized")
	return nil
}

// MaskCredentialsLogging masks the url credentials before logging for security purpose
// [scheme:][//[userinfo@]host][/]path[?query][#fragment] -->  [scheme:][//[***]host][/***][#***]
// if the format is not matched nothing is done, string is returned as is.
func MaskCredentialsLogging(currUrl string) string {
	masked := currUrl
	u, err := url.Parse(currUrl)
	if err != nil {
		return currUrl
	}
	if u.User != nil {
		masked = strings.Replace(masked, u.User.String(), "***", 1)
	}
	if len(u.RequestURI()) > 1 {
		masked = strings.Replace(masked, u.RequestURI(), "/***", 1)
	}
	if len(u.Fragment) > 0 {
		masked = strings.Replace(masked, u.RawFragment, "***", 1)
	}
	return masked
}
