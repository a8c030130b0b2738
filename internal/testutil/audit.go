package testutil

import (
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewAuditRecorder returns an audit logger that writes only to an
// in-memory zap core, and the entries it records.
func NewAuditRecorder() (*auditlog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.Log, Admin: auditlog.Log}), logs
}

// AuditEvents returns the event_type of each recorded audit entry.
func AuditEvents(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterField(zap.Bool("audit", true)).All() {
		if v, ok := e.ContextMap()["event_type"].(string); ok {
			out = append(out, v)
		}
	}
	return out
}
