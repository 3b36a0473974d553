package service

import "errors"

// Kind classifies service failures so the transport layer can pick a
// status code without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindStorage
)

// Error is a client-facing failure. Message is safe to serialize.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func validationErr(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func authErr(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func notFoundErr(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func storageErr(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf extracts the failure kind, or KindUnknown for internal errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}
