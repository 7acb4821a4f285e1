package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	cashbookdomain "github.com/smallbiznis/bizbook/internal/cashbook/domain"
	expensedomain "github.com/smallbiznis/bizbook/internal/expense/domain"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
	seqdomain "github.com/smallbiznis/bizbook/internal/sequence/domain"
	transactiondomain "github.com/smallbiznis/bizbook/internal/transaction/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns errors recorded on the gin context into a
// uniform JSON error body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

// validationSentinels maps domain validation errors to the field they
// concern. Anything here renders as 400.
var validationSentinels = map[error]string{
	billingdomain.ErrInvalidType:          "type",
	billingdomain.ErrInvalidID:            "id",
	billingdomain.ErrInvalidParty:         "party",
	billingdomain.ErrEmptyItems:           "items",
	billingdomain.ErrInvalidItem:          "items",
	billingdomain.ErrInvalidMethod:        "method",
	billingdomain.ErrInvalidAmount:        "amount",
	seqdomain.ErrInvalidKind:              "type",
	productdomain.ErrInvalidProduct:       "product_id",
	transactiondomain.ErrInvalidParty:     "party_id",
	transactiondomain.ErrInvalidDirection: "direction",
	transactiondomain.ErrInvalidAmount:    "amount",
	transactiondomain.ErrInvalidID:        "id",
	cashbookdomain.ErrInvalidDirection:    "direction",
	cashbookdomain.ErrInvalidMethod:       "method",
	cashbookdomain.ErrInvalidAmount:       "amount",
	cashbookdomain.ErrInvalidID:           "id",
	expensedomain.ErrInvalidCategory:      "category",
	expensedomain.ErrInvalidAmount:        "amount",
	expensedomain.ErrInvalidID:            "id",
}

var notFoundSentinels = []error{
	billingdomain.ErrNotFound,
	productdomain.ErrNotFound,
	transactiondomain.ErrNotFound,
	cashbookdomain.ErrNotFound,
	expensedomain.ErrNotFound,
	gorm.ErrRecordNotFound,
}

var businessSentinels = []error{
	billingdomain.ErrInvalidBusiness,
	seqdomain.ErrInvalidBusiness,
	productdomain.ErrInvalidBusiness,
	transactiondomain.ErrInvalidBusiness,
	cashbookdomain.ErrInvalidBusiness,
	expensedomain.ErrInvalidBusiness,
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: "invalid_request", Message: "invalid request"},
			},
		}
	}

	// Changing a bill's identity is a conflict with the stored record,
	// not a malformed request.
	if errors.Is(err, billingdomain.ErrImmutableField) {
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "immutable field",
		}
	}

	for sentinel, field := range validationSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: "validation error",
				Errors: []ValidationError{
					{Field: field, Code: sentinel.Error(), Message: sentinel.Error()},
				},
			}
		}
	}

	for _, sentinel := range businessSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusUnauthorized, errorPayload{
				Type:    "unauthorized",
				Message: "business context required",
			}
		}
	}

	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusNotFound, errorPayload{
				Type:    "not_found",
				Message: "not found",
			}
		}
	}

	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}
