// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds back-end dependencies for the app. The Mongo fields are
// nil when no audit database is configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}

// AuditStore returns the audit store, or nil without a database.
func (d DBDeps) AuditStore() *audit.Store {
	if d.MongoDatabase == nil {
		return nil
	}
	return audit.New(d.MongoDatabase)
}
