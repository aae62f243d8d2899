package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/elvm/lisp"
)

// FormLabeler provides an alternative name for a form's label in the trace.
type FormLabeler func(form *lisp.Value) string

// WithFormLabeler sets the labeler for tracing spans.  Labels are sanitized
// before use; a labeler returning the empty string falls back to the
// operator name.
func WithFormLabeler(formLabeler FormLabeler) Option {
	return func(p *profiler) {
		p.formLabeler = formLabeler
	}
}

// WithArityLabeler labels spans with the operator name and argument count,
// e.g. add/3.
func WithArityLabeler() Option {
	return WithFormLabeler(arityLabeler)
}

func arityLabeler(form *lisp.Value) string {
	op := operatorName(form)
	if op == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d", op, form.Len()-1)
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
