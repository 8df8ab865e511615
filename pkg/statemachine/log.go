package statemachine

import (
	"log/slog"

	"github.com/dmitrymomot/gamekit/pkg/logger"
)

// LogTransitions registers an all-transitions listener on reg that logs each
// transition at debug level.
func LogTransitions[S comparable](reg *Registry[S], owner any, log *slog.Logger) (Subscription, error) {
	if log == nil {
		return Subscription{}, invalidArgument("logger cannot be nil")
	}
	sub, err := reg.SubscribeToAllTransitions(owner, func(from, to S) {
		log.Debug("state transition", logger.Transition(from, to))
	})
	if err != nil {
		return Subscription{}, err
	}
	log.Debug("transition logging enabled", logger.Owner(owner), logger.SubscriptionID(sub.ID))
	return sub, nil
}
