package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blimu-dev/swiftgen/pkg/spec"
)

var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// FormatError renders err for a terminal. Document errors list their
// location and JSON pointer on separate lines.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUsage) {
		return err.Error()
	}

	var buildErr *spec.BuildError
	if errors.As(err, &buildErr) && len(buildErr.Errors) > 1 {
		var b strings.Builder
		fmt.Fprintf(&b, "%d parts of the document could not be modeled:", len(buildErr.Errors))
		for _, e := range buildErr.Errors {
			b.WriteString("\n\n")
			b.WriteString(describe(e))
		}
		return b.String()
	}

	var se *spec.Error
	if errors.As(err, &se) {
		return describe(se)
	}
	return err.Error()
}

func describe(se *spec.Error) string {
	msg := fmt.Sprintf("%s: %s", se.Code, se.Message)
	if se.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
	}
	if se.Pointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, se.Pointer)
	}
	return msg
}
