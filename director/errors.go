package director

import "fmt"

// ValidationError reports a gameplay event that failed taxonomy checks.
// The offending event is discarded and tracker state is unchanged.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("director: invalid %s %q", e.Field, e.Value)
}

// ConfigError reports a configuration problem detected at session start or
// during a degraded-mode substitution (for example an empty spawn pool).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("director: config %s: %s", e.Field, e.Reason)
}

// QualityGateWarning is emitted on the outbound queue when the selector
// exhausts its retry bound and falls back to the default entity set. It is
// never fatal; the session continues.
type QualityGateWarning struct {
	Retries int
	Time    float64
}

func (e *QualityGateWarning) Error() string {
	return fmt.Sprintf("director: quality gate exhausted after %d retries", e.Retries)
}
