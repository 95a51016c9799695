// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app. The Mongo
// fields are nil with the memory backend; Store is always set.
type DBDeps struct {
	Backend       string
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Store         docstore.Store
	Workers       *workers.Runner
}
