package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names the variable that points tests at an existing server.
const MongoURIEnv = "MONEYTRACKER_TEST_MONGO_URI"

var (
	mongoOnce sync.Once
	mongoURI  string
	mongoErr  error
)

// TestContext returns a context bounded for a single test.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh database on a shared MongoDB server and drops
// it when the test finishes. The server comes from MONEYTRACKER_TEST_MONGO_URI
// or, failing that, a mongo container started once per test binary. The test
// is skipped when neither is available.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB test in -short mode")
	}

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		mongoOnce.Do(startContainer)
		if mongoErr != nil {
			t.Skipf("mongo container unavailable: %v", mongoErr)
		}
		uri = mongoURI
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}

	name := "mt_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// The container is left for the testcontainers reaper to remove when the
// test binary exits.
func startContainer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:7"))
	if err != nil {
		mongoErr = err
		return
	}
	mongoURI, mongoErr = c.ConnectionString(ctx)
}
