// Package classify maps failures of a protected operation to an error
// type and a recoverability verdict.
//
// Classify is a total, pure function of the cause: every error maps to
// exactly one classification, unclassifiable causes fall back to
// unknown type and unknown recoverability, and the same cause always
// yields the same verdict. No I/O happens during classification.
//
// The mapping is table-driven configuration, not hard-wired logic: a
// Classifier evaluates an ordered rule table where the first matching
// rule wins. DefaultRules covers the stdlib error kinds (net errors,
// context deadlines, filesystem errors, syscall errnos) plus message
// heuristics as a last resort; callers can prepend or replace rules:
//
//	c := classify.New(classify.Config{
//	    Rules: append([]classify.Rule{mine}, classify.DefaultRules()...),
//	})
//	cls := c.Classify(err)
package classify
