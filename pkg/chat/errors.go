package chat

import "fmt"

// BuildErrorKind classifies request-construction failures.
type BuildErrorKind string

const BuildKindMissingRequiredField BuildErrorKind = "missing_required_field"

// BuildError reports an invalid RequestBuilder state. No request is produced
// alongside it.
type BuildError struct {
	Kind  BuildErrorKind
	Field string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %s", e.Kind, e.Field)
}

// DecodeErrorKind classifies response-decoding failures.
type DecodeErrorKind string

const (
	DecodeKindMissingField DecodeErrorKind = "missing_field"
	DecodeKindTypeMismatch DecodeErrorKind = "type_mismatch"
)

// DecodeError reports a malformed chat-completion response.
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Kind, e.Field)
}

func (e *DecodeError) Unwrap() error { return e.Err }
