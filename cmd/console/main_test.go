package main

import (
	"testing"

	_ "github.com/odyssey-erp/owner-console/internal/testing/guard"

	"github.com/odyssey-erp/owner-console/internal/app"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	if !app.InTestMode() {
		t.Fatal("expected test mode to be enabled by the guard import")
	}
	main()
}
