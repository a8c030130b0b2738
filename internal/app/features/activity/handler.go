// internal/app/features/activity/handler.go
package activity

import (
	"time"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"go.uber.org/zap"
)

// Handler owns the sync server activity feed pages.
type Handler struct {
	API      *syncapi.Client
	Views    *views.Registry
	PageSize int
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	now func() time.Time
}

// NewHandler creates a new activity Handler. pageSize <= 0 uses the
// pager default.
func NewHandler(api *syncapi.Client, reg *views.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		Views:    reg,
		PageSize: pageSize,
		ErrLog:   errLog,
		Log:      logger,
		now:      time.Now,
	}
}
