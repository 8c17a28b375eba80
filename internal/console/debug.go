package console

import "acb/pkg/logging"

// Debug is the debug-print helper alongside the table-rendering console: a
// capability-resolved passthrough onto the structured logger, tagged with
// the caller's chosen subsystem name rather than console's own.
func (c *Console) Debug(subsystem, messageFmt string, args ...any) {
	logging.Debug(subsystem, messageFmt, args...)
}
