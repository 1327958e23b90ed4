package gosig

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Policy decides what happens when a call-time contract violation occurs:
// whether a structured diagnostic line is logged and at which severity, and
// whether the violation is raised to the caller. Definition-time errors
// never consult a Policy.
//
// A Policy is expected to be configured once during process initialization
// and only read afterwards; the mutex exists so a late SetLogger in tests is
// not a data race, not to support per-call reconfiguration.
type Policy struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	level   zapcore.Level
	logging bool
	raising bool
	kind    func(msg string) error
}

// NewPolicy returns a policy with the default behavior of the engine:
// raise every violation, log nothing.
func NewPolicy() *Policy {
	return &Policy{raising: true}
}

var defaultPolicy = NewPolicy()

// DefaultPolicy returns the process-wide policy used by instruments that
// were not given an explicit one.
func DefaultPolicy() *Policy { return defaultPolicy }

// SetLogger enables diagnostic logging through l at the given level.
// A nil logger disables logging.
func (p *Policy) SetLogger(l *zap.Logger, level zapcore.Level) {
	p.mu.Lock()
	p.logger = l
	p.level = level
	p.logging = l != nil
	p.mu.Unlock()
}

// SetLogLevel changes the severity used for diagnostic lines.
func (p *Policy) SetLogLevel(level zapcore.Level) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// SetRaising controls whether violations are raised to the caller. With
// raising off and no logger configured, violations are silently ignored and
// the call proceeds as if the value were valid.
func (p *Policy) SetRaising(on bool) {
	p.mu.Lock()
	p.raising = on
	p.mu.Unlock()
}

// SetErrorKind overrides the kind of error raised on violations: the factory
// receives the human-readable message and returns the error to deliver. A
// nil factory restores the built-in typed violation errors.
func (p *Policy) SetErrorKind(kind func(msg string) error) {
	p.mu.Lock()
	p.kind = kind
	p.mu.Unlock()
}

// report logs the violation if logging is enabled and returns the error to
// raise, or nil when raising is disabled.
func (p *Policy) report(site DefSite, violation error) error {
	p.mu.RLock()
	logger, level, logging, raising, kind := p.logger, p.level, p.logging, p.raising, p.kind
	p.mu.RUnlock()
	if logging {
		if ce := logger.Check(level, violation.Error()); ce != nil {
			ce.Write(
				zap.String("file", site.File),
				zap.Int("line", site.Line),
				zap.String("func", site.Name),
			)
		}
	}
	if !raising {
		return nil
	}
	if kind != nil {
		return kind(violation.Error())
	}
	return violation
}

// Package-level setters configure the process-wide default policy, for
// ergonomic parity with engines that keep this state module-global.

// SetLogger enables diagnostic logging on the default policy.
func SetLogger(l *zap.Logger, level zapcore.Level) { defaultPolicy.SetLogger(l, level) }

// SetLogLevel changes the default policy's diagnostic severity.
func SetLogLevel(level zapcore.Level) { defaultPolicy.SetLogLevel(level) }

// SetRaising controls whether the default policy raises violations.
func SetRaising(on bool) { defaultPolicy.SetRaising(on) }

// SetErrorKind overrides the error kind raised by the default policy.
func SetErrorKind(kind func(msg string) error) { defaultPolicy.SetErrorKind(kind) }
