package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBase()

type Logger struct {
	entry *logrus.Entry
}

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// NewLogger returns a logger writing to the shared process-wide output.
func NewLogger() *Logger {
	return &Logger{
		entry: logrus.NewEntry(base),
	}
}

// SetLevel changes the level of every logger created by this package.
// Unknown levels are reported and leave the current level unchanged.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// With returns a child logger that attaches key to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.entry.Infoln(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.entry.Warnln(v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.entry.Errorln(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}
