package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// State records a state under the key "state".
func State(s any) slog.Attr {
	return slog.String("state", fmt.Sprint(s))
}

// Transition groups both ends of a transition under "transition".
func Transition(from, to any) slog.Attr {
	return Group("transition",
		slog.String("from", fmt.Sprint(from)),
		slog.String("to", fmt.Sprint(to)),
	)
}

// Owner records a subscription owner under the key "owner".
// If owner is nil, it returns an empty Attr.
func Owner(owner any) slog.Attr {
	if owner == nil {
		return slog.Attr{}
	}
	return slog.String("owner", fmt.Sprint(owner))
}

// SubscriptionID records a subscription ID under the key "subscription_id".
func SubscriptionID(id string) slog.Attr {
	return slog.String("subscription_id", id)
}

// MachineKey records the persistence key of a machine under "machine_key".
// If key is empty, it returns an empty Attr.
func MachineKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("machine_key", key)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
