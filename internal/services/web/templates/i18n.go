package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer translates message keys. *message.Printer satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key. Without a localizer the key itself is formatted.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		if len(args) > 0 {
			return fmt.Sprintf(key, args...)
		}
		return key
	}
	return loc.Sprintf(key, args...)
}

// translateOr returns fallback when key is blank or has no message.
func translateOr(loc Localizer, key, fallback string) string {
	if key == "" {
		return fallback
	}
	if value := T(loc, key); value != "" && value != key {
		return value
	}
	return fallback
}
