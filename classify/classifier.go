package classify

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"strings"
	"syscall"

	"github.com/benbjohnson/clock"
)

// Rule maps matching causes to a classification. Rules are evaluated
// in order; the first match wins.
type Rule struct {
	// Name identifies the rule in logs and tests.
	Name string

	// Match reports whether the rule applies to the cause. It must be
	// pure: no side effects, no I/O.
	Match func(err error) bool

	Type           ErrorType
	Recoverability Recoverability
	Severity       Severity
	RequiresReport bool
}

// Config configures a Classifier.
type Config struct {
	// Rules is the ordered classification table.
	// Default: DefaultRules().
	Rules []Rule

	// Clock stamps classifications. Injectable for deterministic tests.
	Clock clock.Clock
}

// Classifier turns failures into classifications by evaluating its
// rule table. Safe for concurrent use; the table is fixed after
// construction.
type Classifier struct {
	rules []Rule
	clock clock.Clock
}

// New creates a classifier.
func New(cfg Config) *Classifier {
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Classifier{rules: cfg.Rules, clock: cfg.Clock}
}

// Classify maps a cause to its classification. It is total: every
// cause, including nil, yields a verdict. Causes no rule matches fall
// back to unknown type and unknown recoverability with an incident
// report required, since an unrecognized failure is the one the
// operator most needs to hear about.
func (c *Classifier) Classify(cause error) Classification {
	now := c.clock.Now()

	if cause == nil {
		return Classification{
			Type:           TypeUnknown,
			Recoverability: Unknown,
			Severity:       SeverityLow,
			ClassifiedAt:   now,
		}
	}

	for _, rule := range c.rules {
		if rule.Match(cause) {
			return Classification{
				Type:           rule.Type,
				Recoverability: rule.Recoverability,
				Severity:       rule.Severity,
				RequiresReport: rule.RequiresReport,
				Cause:          cause,
				ClassifiedAt:   now,
			}
		}
	}

	return Classification{
		Type:           TypeUnknown,
		Recoverability: Unknown,
		Severity:       SeverityMedium,
		RequiresReport: true,
		Cause:          cause,
		ClassifiedAt:   now,
	}
}

// DefaultRules returns the default classification table. Typed checks
// come first; message heuristics are the last resort before the
// unknown fallback.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "context-deadline",
			Match: func(err error) bool {
				return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT)
			},
			Type:           TypeTimeout,
			Recoverability: Transient,
			Severity:       SeverityMedium,
		},
		{
			Name: "context-canceled",
			Match: func(err error) bool {
				return errors.Is(err, context.Canceled)
			},
			Type:           TypeConcurrency,
			Recoverability: Permanent,
			Severity:       SeverityLow,
		},
		{
			Name: "net-timeout",
			Match: func(err error) bool {
				var nerr net.Error
				return errors.As(err, &nerr) && nerr.Timeout()
			},
			Type:           TypeNetwork,
			Recoverability: Transient,
			Severity:       SeverityMedium,
		},
		{
			Name: "net-connection",
			Match: func(err error) bool {
				var operr *net.OpError
				if errors.As(err, &operr) {
					return true
				}
				return errors.Is(err, syscall.ECONNREFUSED) ||
					errors.Is(err, syscall.ECONNRESET) ||
					errors.Is(err, syscall.EPIPE)
			},
			Type:           TypeNetwork,
			Recoverability: Transient,
			Severity:       SeverityMedium,
		},
		{
			Name: "fs-permission",
			Match: func(err error) bool {
				return errors.Is(err, fs.ErrPermission)
			},
			Type:           TypeIO,
			Recoverability: Permanent,
			Severity:       SeverityHigh,
			RequiresReport: true,
		},
		{
			Name: "fs-not-exist",
			Match: func(err error) bool {
				return errors.Is(err, fs.ErrNotExist)
			},
			Type:           TypeIO,
			Recoverability: Permanent,
			Severity:       SeverityMedium,
		},
		{
			Name: "io-interrupted",
			Match: func(err error) bool {
				return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrClosedPipe)
			},
			Type:           TypeIO,
			Recoverability: Transient,
			Severity:       SeverityMedium,
		},
		{
			Name:           "resource-exhaustion",
			Match:          messageContains("out of memory", "cannot allocate", "resource exhausted", "too many open files"),
			Type:           TypeMemory,
			Recoverability: Unknown,
			Severity:       SeverityCritical,
			RequiresReport: true,
		},
		{
			Name:           "rate-limited",
			Match:          messageContains("rate limit", "too many requests", "429"),
			Type:           TypeExternalDependency,
			Recoverability: Transient,
			Severity:       SeverityMedium,
		},
		{
			Name:           "auth-rejected",
			Match:          messageContains("unauthorized", "forbidden", "401", "403"),
			Type:           TypeExternalDependency,
			Recoverability: Permanent,
			Severity:       SeverityHigh,
			RequiresReport: true,
		},
		{
			Name:           "malformed-input",
			Match:          messageContains("malformed", "invalid", "validation", "parse error", "unexpected token"),
			Type:           TypeValidation,
			Recoverability: Permanent,
			Severity:       SeverityMedium,
		},
	}
}

// messageContains builds a pure matcher over the lowercased error
// message.
func messageContains(needles ...string) func(error) bool {
	return func(err error) bool {
		msg := strings.ToLower(err.Error())
		for _, needle := range needles {
			if strings.Contains(msg, needle) {
				return true
			}
		}
		return false
	}
}
