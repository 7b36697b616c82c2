package utils

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ActionResult is the body returned by every mutating endpoint
type ActionResult struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Redirect string      `json:"redirect,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Created sends a standardized created response (201)
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ActionSuccess answers a mutation that went through
func ActionSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ActionResult{Success: true, Message: message, Data: data})
}

// ActionRedirect answers a mutation whose client should navigate to redirect next
func ActionRedirect(c *gin.Context, success bool, message, redirect string) {
	c.JSON(http.StatusOK, ActionResult{Success: success, Message: message, Redirect: redirect})
}

// ActionFailure answers a mutation that could not be applied
func ActionFailure(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ActionResult{Success: false, Message: message})
}

// ActionError maps err onto an ActionResult, using the AppError code when there is one
func ActionError(c *gin.Context, err error) {
	if appErr := GetAppError(err); appErr != nil {
		ActionFailure(c, appErr.Code, appErr.Message)
		return
	}
	var verrs ValidationErrors
	if AsValidationErrors(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, ActionResult{Success: false, Message: verrs.Error(), Data: gin.H{"errors": verrs}})
		return
	}
	ActionFailure(c, http.StatusInternalServerError, FormatError(err))
}

// Paginated sends a page of results along with the page count
func Paginated(c *gin.Context, message string, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data":    data,
		"pagination": gin.H{
			"total":       p.Total,
			"page":        p.Page,
			"per_page":    p.Limit,
			"total_pages": p.LastPage,
		},
	})
}

// Error sends a standardized error response
func Error(c *gin.Context, statusCode int, message string, err interface{}) {
	response := StandardResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		response.Data = gin.H{"error": err}
	}
	c.JSON(statusCode, response)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusInternalServerError, message, err)
}

// ValidationError sends a 422 Unprocessable Entity response
func ValidationError(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusUnprocessableEntity, message, err)
}

// Conflict sends a 409 Conflict response
func Conflict(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusConflict, message, err)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message, nil)
}

// ExtendJSON encodes base as a JSON object with fields added on top. Response types that embed a
// model use it, since the model's own MarshalJSON would otherwise hide their extra fields.
func ExtendJSON(base interface{}, fields map[string]interface{}) ([]byte, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = make(map[string]json.RawMessage, len(fields))
	}
	for key, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		obj[key] = encoded
	}
	return json.Marshal(obj)
}
