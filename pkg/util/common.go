package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ok 成功响应
func Ok(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Fail 错误响应，统一输出 {"error": <message>}
func Fail(c *gin.Context, code int, err interface{}) {
	var message string
	switch v := err.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = "Internal server error"
	}
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
