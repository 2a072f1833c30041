package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/tripwit/testutil"
)

// TestMain migrates the integration database once per test binary so
// individual tests never need to think about schema state. Without
// TEST_DATABASE_URL the integration tests skip themselves and only the
// pgxmock tests run.
func TestMain(m *testing.M) {
	if dsn := os.Getenv(testutil.EnvDSN); dsn != "" {
		if err := testutil.Migrate(context.Background(), dsn); err != nil {
			log.Fatalf("TestMain: %v", err)
		}
	}
	os.Exit(m.Run())
}
