// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetCaseID gets the case id from context or panics. Only use it behind Auth.
func MustGetCaseID(c *gin.Context) string {
	caseID, exists := GetCaseID(c)
	if !exists {
		panic("case_id not found in context")
	}
	return caseID
}

// GetCustomerType is the customer type the case token was issued for.
func GetCustomerType(c *gin.Context) string {
	v, exists := c.Get(CustomerTypeKey)
	if !exists {
		return ""
	}
	t, _ := v.(string)
	return t
}

func HasCase(c *gin.Context) bool {
	_, exists := GetCaseID(c)
	return exists
}
