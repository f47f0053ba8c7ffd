package hintrunner

import "fmt"

// Kind enumerates the binding-and-hint-level error taxonomy that isn't
// already covered by memory.Kind.
type Kind int

const (
	KindUnknownVariable Kind = iota
	KindReferenceUnresolvable
	KindExpectedInteger
	KindExpectedRelocatable
	KindValueNotPositive
	KindBigintToUsizeFail
	KindInvalidSetRange
)

func (k Kind) String() string {
	switch k {
	case KindUnknownVariable:
		return "UnknownVariable"
	case KindReferenceUnresolvable:
		return "ReferenceUnresolvable"
	case KindExpectedInteger:
		return "ExpectedInteger"
	case KindExpectedRelocatable:
		return "ExpectedRelocatable"
	case KindValueNotPositive:
		return "ValueNotPositive"
	case KindBigintToUsizeFail:
		return "BigintToUsizeFail"
	case KindInvalidSetRange:
		return "InvalidSetRange"
	default:
		return "Unknown"
	}
}

// HintError is the structured error returned by variable binding and by
// the set_add hint. Like memory.MemoryError, it carries a Kind rather
// than an opaque string.
type HintError struct {
	Kind   Kind
	Name   string
	Detail string
}

func (e *HintError) Error() string {
	switch e.Kind {
	case KindUnknownVariable:
		return fmt.Sprintf("unknown variable %q", e.Name)
	case KindReferenceUnresolvable:
		return fmt.Sprintf("reference for %q could not be resolved: %s", e.Name, e.Detail)
	case KindExpectedInteger:
		return fmt.Sprintf("expected %q to be a field element, got a relocatable", e.Name)
	case KindExpectedRelocatable:
		return fmt.Sprintf("expected %q to be a relocatable, got a field element", e.Name)
	case KindValueNotPositive:
		return fmt.Sprintf("expected a positive value for %q, got %s", e.Name, e.Detail)
	case KindBigintToUsizeFail:
		return fmt.Sprintf("%q does not fit a machine word: %s", e.Name, e.Detail)
	case KindInvalidSetRange:
		return fmt.Sprintf("invalid set range: %s", e.Detail)
	default:
		return "hint error"
	}
}

// Is supports errors.Is by comparing Kind only.
func (e *HintError) Is(target error) bool {
	other, ok := target.(*HintError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(kind Kind, name, detail string) *HintError {
	return &HintError{Kind: kind, Name: name, Detail: detail}
}
