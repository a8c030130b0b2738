// internal/app/features/members/handler.go
package members

import (
	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"go.uber.org/zap"
)

// Handler serves the group membership editor modal.
type Handler struct {
	API      *syncapi.Client
	Views    *views.Registry
	Seq      *membership.Sequencer
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler creates a members Handler. seq is shared by every editor in
// the process so writes for one user are applied in the order they arrive.
func NewHandler(api *syncapi.Client, reg *views.Registry, seq *membership.Sequencer, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if seq == nil {
		seq = membership.NewSequencer()
	}
	return &Handler{
		API:      api,
		Views:    reg,
		Seq:      seq,
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}
