//go:build integration

package gameintegrationtests

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/Black-And-White-Club/belote-tracker/integration_tests/testutils"
)

// testEnv is the shared environment managed by TestMain.
var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	env, err := testutils.NewTestEnvironment(context.Background())
	if err != nil {
		log.Printf("failed to set up integration environment: %v", err)
		os.Exit(1)
	}
	testEnv = env

	code := m.Run()
	env.Cleanup()
	os.Exit(code)
}
