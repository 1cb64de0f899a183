package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrConflict        = 1005
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007
	ErrServiceUnavail  = 1008

	// Auth errors (2000-2999)
	ErrAuthInvalidCredentials = 2000
	ErrAuthUserNotFound       = 2001
	ErrAuthEmailExists        = 2002
	ErrAuthAlreadyVerified    = 2003
	ErrAuthOTPIncorrect       = 2004
	ErrAuthOTPExpired         = 2005
	ErrAuthNotVerified        = 2006
	ErrAuthInvalidToken       = 2007
	ErrAuthInvalidRole        = 2008

	// Meal errors (3000-3999)
	ErrMealNotFound       = 3000
	ErrMealInvalidInput   = 3001
	ErrChefNotFound       = 3002
	ErrInvalidCoordinates = 3003
	ErrInvalidSearchQuery = 3004

	// Order errors (4000-4999)
	ErrOrderNotFound     = 4000
	ErrOrderInvalidInput = 4001

	// Profile errors (5000-5999)
	ErrCustomerNotFound    = 5000
	ErrProfileInvalidInput = 5001
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	// Auth errors
	ErrAuthInvalidCredentials: {ErrAuthInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	ErrAuthUserNotFound:       {ErrAuthUserNotFound, http.StatusNotFound, "User not found"},
	ErrAuthEmailExists:        {ErrAuthEmailExists, http.StatusConflict, "Email already exists"},
	ErrAuthAlreadyVerified:    {ErrAuthAlreadyVerified, http.StatusConflict, "User account already verified"},
	ErrAuthOTPIncorrect:       {ErrAuthOTPIncorrect, http.StatusBadRequest, "OTP is not correct"},
	ErrAuthOTPExpired:         {ErrAuthOTPExpired, http.StatusBadRequest, "OTP is expired"},
	ErrAuthNotVerified:        {ErrAuthNotVerified, http.StatusForbidden, "Email not verified"},
	ErrAuthInvalidToken:       {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	ErrAuthInvalidRole:        {ErrAuthInvalidRole, http.StatusBadRequest, "Invalid role"},

	// Meal errors
	ErrMealNotFound:       {ErrMealNotFound, http.StatusNotFound, "Meal not found"},
	ErrMealInvalidInput:   {ErrMealInvalidInput, http.StatusBadRequest, "Invalid meal input"},
	ErrChefNotFound:       {ErrChefNotFound, http.StatusNotFound, "Chef not found"},
	ErrInvalidCoordinates: {ErrInvalidCoordinates, http.StatusBadRequest, "Invalid coordinates provided"},
	ErrInvalidSearchQuery: {ErrInvalidSearchQuery, http.StatusBadRequest, "Invalid search query"},

	// Order errors
	ErrOrderNotFound:     {ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	ErrOrderInvalidInput: {ErrOrderInvalidInput, http.StatusBadRequest, "Invalid order input"},

	// Profile errors
	ErrCustomerNotFound:    {ErrCustomerNotFound, http.StatusNotFound, "Customer not found"},
	ErrProfileInvalidInput: {ErrProfileInvalidInput, http.StatusBadRequest, "Invalid profile input"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
