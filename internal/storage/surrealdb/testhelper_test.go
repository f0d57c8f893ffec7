package surrealdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	surreal "github.com/surrealdb/surrealdb.go"

	"github.com/tomhartley/ledgerd/internal/common"
)

// testDB connects to a live dev SurrealDB instance. Tests are skipped
// unless LEDGERD_TEST_DB_ADDRESS points at one, so the suite stays green
// without infrastructure. Each test gets a unique database for isolation.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()

	address := os.Getenv("LEDGERD_TEST_DB_ADDRESS")
	if address == "" {
		t.Skip("set LEDGERD_TEST_DB_ADDRESS to run SurrealDB integration tests")
	}

	ctx := context.Background()

	db, err := surreal.New(address)
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": "root",
		"pass": "root",
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}

	// Subtests produce names with "/" which SurrealDB rejects in db names.
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbName := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	if err := db.Use(ctx, "ledgerd_test", dbName); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}

	for _, table := range []string{"account", "debt", "bill", "transaction", "price_history", "exchange_rate"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surreal.Query[any](ctx, db, sql, nil); err != nil {
			t.Fatalf("define table %s: %v", table, err)
		}
	}

	t.Cleanup(func() {
		db.Close(context.Background())
	})

	return db
}

// testLogger returns a silent logger for tests.
func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
