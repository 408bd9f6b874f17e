package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 成功回應的統一格式
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse 失敗回應的統一格式
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondWithMeta(c *gin.Context, status int, data interface{}, message string, meta interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data, Meta: meta})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Success: false, Message: message})
}

func respondValidationError(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Success: false, Message: "Validation failed", Errors: errs})
}
