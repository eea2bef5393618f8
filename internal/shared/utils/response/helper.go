package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the envelope every ticketly endpoint answers with, from
// reservation creation down to the health probes. Handlers pass nil for the
// side they are not using: data on errors, errors on success.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
