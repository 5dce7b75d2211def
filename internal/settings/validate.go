package settings

import (
	"fmt"
	"strings"
)

// Rule expressions that describe nullability or restate the setting
// type. They carry no constraint of their own and are skipped.
var noopRules = map[string]struct{}{
	"nullable":  {},
	"sometimes": {},
	"bail":      {},
	"string":    {},
	"array":     {},
	"boolean":   {},
	"integer":   {},
	"numeric":   {},
}

// checkRules validates a typed value against its declared rule list. The
// first failing rule is reported back with the key so callers can show
// an actionable message.
func (s *Service) checkRules(key string, value any, rules []string) error {
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if _, ok := noopRules[rule]; ok {
			continue
		}

		if err := s.checkRule(value, rule); err != nil {
			return fmt.Errorf("%w: key %q failed rule %q", ErrValidationFailed, key, rule)
		}
	}

	return nil
}

// checkRule runs one rule through the validator engine. Rules are stored
// as "name:param" and the engine expects "name=param". A malformed or
// unknown rule expression counts as a failure instead of panicking.
func (s *Service) checkRule(value any, rule string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rule %q: %v", rule, r)
		}
	}()

	return s.validate.Var(value, strings.Replace(rule, ":", "=", 1))
}
