// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/syncadmin/internal/app/resources"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		c := timeouts.Current()
		logger.Info("handler timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("ping", c.Ping),
			zap.Duration("short", c.Short),
			zap.Duration("medium", c.Medium),
			zap.Duration("long", c.Long),
		)
	}
	return nil
}
