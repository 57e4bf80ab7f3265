package users

import (
	"github.com/goliatone/go-logger/glog"
)

// LoggerProvider hands out named loggers so components can keep their own
// log scope while sharing one backend.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// ResolveLogger picks the effective provider and logger for a component.
// A provider wins over a bare logger; when neither is supplied we fall back
// to a glog logger named after the component.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if provider != nil {
		if l := provider.GetLogger(name); l != nil {
			return provider, l
		}
	}

	if logger != nil {
		return staticLoggerProvider{logger: logger}, logger
	}

	def := defaultLogger(name)
	return staticLoggerProvider{logger: def}, def
}

func defaultLogger(name string) Logger {
	return glog.NewLogger(glog.WithName(name))
}

type staticLoggerProvider struct {
	logger Logger
}

func (p staticLoggerProvider) GetLogger(string) Logger {
	return p.logger
}
