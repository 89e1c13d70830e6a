// Package observe provides structured logging for the resilience engine.
//
// The Logger interface is deliberately minimal so callers can plug in
// their own logging stack. The default implementation emits one JSON
// object per line with a timestamp, level, message, and fields, scoped
// to a component name:
//
//	log := observe.NewLogger("info").WithComponent("breaker")
//	log.Warn(ctx, "circuit opened",
//	    observe.String("name", "payments-db"),
//	    observe.Int("recent_failures", 5),
//	)
//
// NopLogger discards everything and is the default wherever a Logger is
// optional.
package observe
