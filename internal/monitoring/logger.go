package monitoring

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logf is the package-level diagnostic logger. It defaults to logrus.Infof but
// may be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = logrus.Infof

// Warnf reports recoverable problems such as axis limits that had to be
// clamped to the simulation box. It defaults to logrus.Warnf.
var Warnf func(format string, v ...interface{}) = logrus.Warnf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetWarner replaces the warning logger. Passing nil will set a no-op logger.
func SetWarner(f func(format string, v ...interface{})) {
	if f == nil {
		Warnf = func(string, ...interface{}) {}
		return
	}
	Warnf = f
}

// Configure sets the logrus level and output used by the default loggers.
// An empty level leaves the current level unchanged.
func Configure(level string, out io.Writer) error {
	if out != nil {
		logrus.SetOutput(out)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}
