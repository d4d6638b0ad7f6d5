// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/docstore/fsstore"
	"github.com/dalemusser/pujahub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Store is the document store every feature reads and writes.
	Store   docstore.Store
	Backend string

	// Set only for the mongo backend.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Set only for the firestore backend.
	Firestore *fsstore.Store

	// Background holds workers started in Startup and stopped in Shutdown.
	Background *Background
}

// Background is shared by pointer because WAFFLE passes DBDeps by value.
type Background struct {
	Runners []*workers.Runner
	Closers []func()
}
