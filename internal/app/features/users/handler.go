// internal/app/features/users/handler.go
package users

import (
	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"go.uber.org/zap"
)

// Handler serves the sync server user table.
type Handler struct {
	API      *syncapi.Client
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler creates a users Handler.
func NewHandler(api *syncapi.Client, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}
