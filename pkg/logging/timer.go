package logging

import "time"

// TimedOperation logs a message with its latency once the work is done
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

// Elapsed returns the time since the operation started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs at Info
func (t *TimedOperation) End(fields ...Field) {
	t.logger.Info(t.msg, t.finish(fields)...)
}

// EndDebug logs at Debug
func (t *TimedOperation) EndDebug(fields ...Field) {
	t.logger.Debug(t.msg, t.finish(fields)...)
}

// EndError logs at Error with err attached
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, t.finish([]Field{Error(err)})...)
}

func (t *TimedOperation) finish(extra []Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra)+1)
	out = append(out, t.fields...)
	out = append(out, extra...)
	return append(out, Latency(t.Elapsed()))
}
