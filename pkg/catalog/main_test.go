package catalog_test

import (
	"os"
	"testing"

	"github.com/go-delve/runmod/pkg/internal/protest"
)

func TestMain(m *testing.M) {
	os.Exit(protest.RunTestsWithFixtures(m))
}
