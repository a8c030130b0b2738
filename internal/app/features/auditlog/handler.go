// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *audit.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs the console audit trail handler. store is nil when
// the console runs without MongoDB; the page then says so.
func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Log:    logger,
		ErrLog: errLog,
	}
}
