package common

type dummyLogger struct{}

func (dummyLogger) Debugf(format string, args ...any) {}
func (dummyLogger) Infof(format string, args ...any)  {}
func (dummyLogger) Warnf(format string, args ...any)  {}
func (dummyLogger) Errorf(format string, args ...any) {}

var _ Logger = dummyLogger{}

func DummyLogger() Logger {
	return dummyLogger{}
}
