package response

import "github.com/gin-gonic/gin"

// MessageResponse is the body of every non-answer reply: {message} or {message, error}.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Message(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageResponse{Message: message})
}

// Error reports a failure along with the underlying error text.
func Error(c *gin.Context, httpStatus int, message string, err error) {
	body := MessageResponse{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	c.JSON(httpStatus, body)
}
