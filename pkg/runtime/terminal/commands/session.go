package commands

import (
	"context"

	"github.com/de-tools/nutrition-atlas/pkg/runtime"
)

// Session hands out the components shared by every command of one invocation
type Session interface {
	Components(ctx context.Context) (*runtime.Components, error)
}
