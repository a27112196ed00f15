package audit

import "fmt"

// Severity tells passing findings from failing ones.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityFail
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityFail:
		return "FAIL"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding is one pass/fail observation about a node.
type Finding struct {
	Severity Severity
	Message  string
}

// String renders the finding as a report line, without the trailing newline.
func (f Finding) String() string {
	return "[" + f.Severity.String() + "] " + f.Message
}

func ok(format string, args ...interface{}) Finding {
	return Finding{Severity: SeverityOK, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...interface{}) Finding {
	return Finding{Severity: SeverityFail, Message: fmt.Sprintf(format, args...)}
}
