package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the context.
const userIDKey = contextKey("userID")

// isAdminKey is the key used to store the admin flag of the authenticated user.
const isAdminKey = contextKey("isAdmin")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// IsAdminFromContext reports whether the authenticated user carries the
// admin audience.
func IsAdminFromContext(c *gin.Context) bool {
	if isAdminVal, exists := c.Get(string(isAdminKey)); exists {
		if isAdmin, ok := isAdminVal.(bool); ok {
			return isAdmin
		}
	}
	if isAdminVal := c.Request.Context().Value(isAdminKey); isAdminVal != nil {
		if isAdmin, ok := isAdminVal.(bool); ok {
			return isAdmin
		}
	}
	return false
}
