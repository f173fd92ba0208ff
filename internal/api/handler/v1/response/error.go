package response

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error type names as they appear on the wire.
const (
	TypeValidation       = "validation_error"
	TypeAuthentication   = "authentication_error"
	TypePermissionDenied = "permission_denied"
	TypeNotFound         = "not_found"
	TypeConflict         = "conflict"
	TypeInternal         = "internal_error"
)

// Stable machine-readable codes clients branch on, distinct from the
// human-readable message.
const (
	CodeValidation       = "VAL_001"
	CodeMissingToken     = "AUTH_001"
	CodeInvalidToken     = "AUTH_002"
	CodeWrongCredentials = "AUTH_004"
	CodeAccountInactive  = "AUTH_005"
	CodePermissionDenied = "PERM_001"
	CodeNotFound         = "RES_001"
	CodeConflict         = "CONFLICT_001"
	CodeInternal         = "SRV_001"
)

// Detail is the bare envelope for HTTP-level errors that never reach a
// handler (unknown route, wrong method). Application errors use Err instead.
type Detail struct {
	Detail string `json:"detail"`
}

type ErrBody struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

type Err struct {
	StatusCode int     `json:"-"`
	Body       ErrBody `json:"error"`

	// wrapped is logged server-side and never rendered.
	wrapped error
}

func (e *Err) Error() string {
	return fmt.Sprintf("%v - %v: %v", e.StatusCode, e.Body.Code, e.Body.Message)
}

// RenderErr writes the error envelope. Internal errors log the cause and
// render a generic message so no stack traces, SQL, or credentials leak.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode == http.StatusInternalServerError {
		zap.L().Error("internal server error",
			zap.String("path", ctx.FullPath()),
			zap.Error(e.wrapped),
		)
	}

	ctx.JSON(e.StatusCode, e)
}

// ErrBadRequest renders a 400. When err is an ozzo validation.Errors, every
// offending field is reported under details, one entry per field.
func ErrBadRequest(err error) *Err {
	e := &Err{
		StatusCode: http.StatusBadRequest,
		Body: ErrBody{
			Type:    TypeValidation,
			Message: err.Error(),
			Code:    CodeValidation,
		},
		wrapped: err,
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		e.Body.Message = "validation failed"
		e.Body.Details = make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			e.Body.Details[field] = fieldErr.Error()
		}
	}

	return e
}

func ErrMissingToken(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Body: ErrBody{
			Type:    TypeAuthentication,
			Message: err.Error(),
			Code:    CodeMissingToken,
		},
		wrapped: err,
	}
}

func ErrInvalidToken(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Body: ErrBody{
			Type:    TypeAuthentication,
			Message: err.Error(),
			Code:    CodeInvalidToken,
		},
		wrapped: err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Body: ErrBody{
			Type:    TypeAuthentication,
			Message: "wrong email or password",
			Code:    CodeWrongCredentials,
		},
		wrapped: err,
	}
}

func ErrAccountInactive(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Body: ErrBody{
			Type:    TypeAuthentication,
			Message: "account is deactivated",
			Code:    CodeAccountInactive,
		},
		wrapped: err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Body: ErrBody{
			Type:    TypePermissionDenied,
			Message: "not allowed to perform this action",
			Code:    CodePermissionDenied,
		},
		wrapped: err,
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Body: ErrBody{
			Type:    TypeNotFound,
			Message: fmt.Sprintf("%v with %v %v not found", resource, key, value),
			Code:    CodeNotFound,
		},
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Body: ErrBody{
			Type:    TypeConflict,
			Message: err.Error(),
			Code:    CodeConflict,
		},
		wrapped: err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Body: ErrBody{
			Type:    TypeInternal,
			Message: "something went wrong",
			Code:    CodeInternal,
		},
		wrapped: err,
	}
}
