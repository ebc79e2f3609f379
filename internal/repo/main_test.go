package repo_test

import (
	"os"
	"testing"

	"github.com/pkordes/wetravel-itinerary/testutil"
)

// TestMain migrates the test database once for the whole package. Without
// TEST_DATABASE_URL every test skips itself.
func TestMain(m *testing.M) {
	testutil.MigrateForMain()
	os.Exit(m.Run())
}
