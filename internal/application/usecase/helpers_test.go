package usecase_test

import (
	"context"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeSurfaceBase satisfies port.ContentSurface; tests override what they use.
type fakeSurfaceBase struct {
	port.ContentSurface
}
