package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront frontend maps these codes to user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_/CATEGORY_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductSlugExists  = "PRODUCT_SLUG_EXISTS"
	CategoryNotFound   = "CATEGORY_NOT_FOUND"
	CategorySlugExists = "CATEGORY_SLUG_EXISTS"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartSizeRequired = "CART_SIZE_REQUIRED"
	CartEmpty        = "CART_EMPTY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound        = "ORDER_NOT_FOUND"
	OrderEmptyCart       = "ORDER_EMPTY_CART"
	OrderNotCancellable  = "ORDER_NOT_CANCELLABLE"
	OrderInvalidDelivery = "ORDER_INVALID_DELIVERY"
	OrderInvalidPayment  = "ORDER_INVALID_PAYMENT"

	// ==================== Payments (PAYMENT_) ====================
	PaymentVerificationFailed = "PAYMENT_VERIFICATION_FAILED"
	PaymentAlreadyProcessed   = "PAYMENT_ALREADY_PROCESSED"
	PaymentGatewayError       = "PAYMENT_GATEWAY_ERROR"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
