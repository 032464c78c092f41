package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts store and driver errors into user-facing codes and
// messages. Sensitive detail stays out of the response; the caller logs the
// raw error.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Constraint violations from the store

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") || strings.Contains(errStrLower, "unique failed") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The referenced record does not exist or is still in use",
		}
	}

	// 2-3. Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 3. Network/connection errors from collaborators
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	// 4. Default
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "products") && strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    ProductSlugExists,
			Message: "A product with this slug already exists",
		}
	}
	if strings.Contains(errLower, "categories") && strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    CategorySlugExists,
			Message: "A category with this slug already exists",
		}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}
	if strings.Contains(errLower, "cart_items") {
		// (user, product, size) collision; the upsert path normally absorbs it
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This item is already in the cart",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested record was not found"
}

// HTTPStatus maps an error code to its HTTP status.
func (e ErrorInfo) HTTPStatus() int {
	switch e.Code {
	case ResourceNotFound, ProductNotFound, CategoryNotFound, CartItemNotFound, OrderNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, ProductSlugExists, CategorySlugExists, AuthEmailAlreadyExists:
		return http.StatusConflict
	case ValidationInvalidInput, ValidationInvalidID, ValidationInvalidRange, ValidationRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
