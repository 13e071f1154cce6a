package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

// Generic codes shared by every surface.
const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Connection request outcomes.
const (
	CodeInvalidStatus         Code = "INVALID_STATUS"
	CodeInvalidDecision       Code = "INVALID_DECISION"
	CodeInvalidIdentifier     Code = "INVALID_IDENTIFIER"
	CodeSelfRequestNotAllowed Code = "SELF_REQUEST_NOT_ALLOWED"
	CodeTargetNotFound        Code = "TARGET_NOT_FOUND"
	CodeDuplicateRequest      Code = "DUPLICATE_REQUEST"
	CodeRequestNotReviewable  Code = "REQUEST_NOT_REVIEWABLE"
	CodeStoreUnavailable      Code = "STORE_UNAVAILABLE"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeForbidden: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "conflict detected",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeInvalidStatus: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "status must be one of ignored, interested, superliked",
		DetailsAllowed: true,
	},
	CodeInvalidDecision: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "decision must be accepted or rejected",
		DetailsAllowed: true,
	},
	CodeInvalidIdentifier: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "malformed identifier",
		DetailsAllowed: true,
	},
	CodeSelfRequestNotAllowed: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "cannot send a request to yourself",
	},
	CodeTargetNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "user not found",
	},
	CodeDuplicateRequest: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "a request already exists between these users",
	},
	CodeRequestNotReviewable: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "request not found or already reviewed",
	},
	CodeStoreUnavailable: {
		HTTPStatus:    http.StatusServiceUnavailable,
		Retryable:     true,
		PublicMessage: "store temporarily unavailable",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// Retryable reports whether the caller may retry the operation that produced err.
func Retryable(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.code).Retryable
}
