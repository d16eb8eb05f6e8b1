package logger

// Noop discards everything. Handy for tests and optional wiring.
type Noop struct{}

func (Noop) Debug(module, message string, details map[string]interface{}) {}
func (Noop) Info(module, message string, details map[string]interface{})  {}
func (Noop) Warn(module, message string, details map[string]interface{})  {}
func (Noop) Error(module, message string, details map[string]interface{}) {}
func (Noop) Sync() error                                                  { return nil }
