// Package errors contains the error handling used by eventfinder. It is
// largely inspired by (and contains code from) the upspin.io/errors package.
package errors

import (
	"bytes"
	"fmt"
	"log"
	"runtime"

	"github.com/findrandomevents/eventfinder"
)

// Error is a domain error for eventfinder. It contains fields used to populate
// parts of the error message. Some of the fields may be left unset.
type Error struct {
	// Session is the session the operation ran in.
	Session eventfinder.SessionID
	// Op is the operation being performed, usually the name of the
	// method being invoked.
	Op Op
	// Kind is the class of error, such as a malformed upstream response, or
	// "Other" if its class is unknown or irrelevant.
	Kind Kind
	// The underlying error that triggered this one, if any.
	Err error
}

func (e *Error) isZero() bool {
	return e.Session == "" && e.Op == "" && e.Kind == 0 && e.Err == nil
}

// E builds an error value from its arguments.
// There must be at least one argument or E panics.
// The type of each argument determines its meaning.
// If more than one argument of a given type is presented,
// only the last one is recorded.
//
// If the error is printed, only those items that have been
// set to non-zero values will appear in the result.
//
// If Kind is not specified or Other, we set it to the Kind of
// the underlying error.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errors.E with no arguments")
	}
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case eventfinder.SessionID:
			e.Session = arg
		case Op:
			e.Op = arg
		case string:
			e.Err = str(arg)
		case Kind:
			e.Kind = arg
		case *Error:
			// Make a copy
			copy := *arg
			e.Err = &copy
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("errors.E: bad call from %s:%d: %v", file, line, args)
			return Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// The previous error was also one of ours. Suppress duplications
	// so the message won't contain the same kind or session twice.
	if prev.Session == e.Session {
		prev.Session = ""
	}
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}
	// If this error has Kind unset or Other, pull up the inner one.
	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}
	return e
}

// pad appends str to the buffer if the buffer already has some data.
func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}
	if e.Session != "" {
		pad(b, ", ")
		b.WriteString("session ")
		b.WriteString(string(e.Session))
	}
	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		if prevErr, ok := e.Err.(*Error); ok {
			if !prevErr.isZero() {
				pad(b, ":\n\t")
				b.WriteString(e.Err.Error())
			}
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

// Unwrap returns the underlying error so the standard library's errors.Is
// and errors.As can see through an *Error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Op describes an operation. eg, "Service.EventSearch"
type Op string

// Kind defines the kind of error this is, used for translating into HTTP status
// codes and SearchResults.
type Kind int

const (
	Other     Kind = iota // Unclassified error. This value is not printed in the error message.
	Invalid               // Bad request
	NotExist              // Item does not exist.
	Transport             // The search provider could not be reached.
	Upstream              // The search provider answered with a non-2xx status.
	EmptyBody             // The search provider answered with an empty body.
	Malformed             // The search provider's answer could not be decoded.
	Canceled              // The operation was superseded or canceled.
	Internal              // Internal error or inconsistency.
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Invalid:
		return "invalid request"
	case NotExist:
		return "item does not exist"
	case Transport:
		return "search provider unreachable"
	case Upstream:
		return "search provider error"
	case EmptyBody:
		return "empty response body"
	case Malformed:
		return "malformed response"
	case Canceled:
		return "canceled"
	case Internal:
		return "internal error"
	}
	return "unknown error kind"
}

// Recreate the errors.New functionality of the standard Go errors package
// so we can create simple text errors when needed.

// str returns an error that formats as the given text.
func str(text string) error {
	return &errorString{text}
}

// errorString is a trivial implementation of error.
type errorString struct {
	s string
}

func (e *errorString) Error() string {
	return e.s
}

// Errorf is equivalent to fmt.Errorf, but allows clients to import only this
// package for all error handling.
func Errorf(format string, args ...interface{}) error {
	return &errorString{fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given Kind.
// If err is nil then Is returns false.
func Is(kind Kind, err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if e.Kind != Other {
		return e.Kind == kind
	}
	if e.Err != nil {
		return Is(kind, e.Err)
	}
	return false
}

// KindOf returns the Kind of err, or Other if err is not an *Error.
func KindOf(err error) Kind {
	e, ok := err.(*Error)
	if !ok {
		return Other
	}
	if e.Kind != Other {
		return e.Kind
	}
	if e.Err != nil {
		return KindOf(e.Err)
	}
	return Other
}
