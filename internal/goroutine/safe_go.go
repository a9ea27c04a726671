package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
)

// SafeGo runs fn in a goroutine that survives panics: a recovered panic
// is logged with its stack instead of crashing the process.
func SafeGo(fn func()) {
	go func() {
		defer recoverAndLog()
		fn()
	}()
}

// SafeGoWithContext is SafeGo for context-aware functions.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverAndLog()
		fn(ctx)
	}()
}

func recoverAndLog() {
	if r := recover(); r != nil {
		logger.Module("goroutine").WithField("panic", r).
			Errorf("panic in goroutine, stack:\n%s", debug.Stack())
	}
}
