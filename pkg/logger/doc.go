// Package logger builds context-aware *slog.Logger values for gamekit
// services and tools.
//
// New takes functional options: output format, level, static attributes and
// ContextExtractor callbacks. The returned logger wraps its handler with
// LogHandlerDecorator, which adds attributes carried by the context of each
// record. Attributes can be stored in a context with WithAttrs, so a machine
// key or a player ID attached once shows up on every nested log line.
//
// # Usage
//
//	log := logger.New(logger.WithDevelopment("arena"))
//	logger.SetAsDefault(log)
//
//	ctx := logger.WithAttrs(ctx, logger.MachineKey("player-1"))
//	log.DebugContext(ctx, "state changed", logger.Transition(Lobby, Match))
//
// # Configuration
//
// Config carries LOG_LEVEL, LOG_FORMAT, APP_ENV and APP_NAME tags and is
// applied with FromConfig:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil { ... }
//	log := logger.New(logger.FromConfig(cfg))
//
// # Attributes
//
// State, Transition, Owner, SubscriptionID and MachineKey keep attribute names
// consistent across the state machine packages. Error and Errors return an
// empty Attr for nil errors, which slog drops, so callers can log
// logger.Error(err) without a nil check.
package logger
