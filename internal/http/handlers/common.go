package handlers

import (
	"net/http"
	"strconv"

	"fieldbook/internal/config"
	"fieldbook/internal/gateway"

	"github.com/gin-gonic/gin"
)

// Package-level wiring set once by the router at startup.
var (
	env            config.Env
	paymentGateway gateway.PaymentGateway
)

// Configure injects startup dependencies into the handlers package.
func Configure(e config.Env, gw gateway.PaymentGateway) {
	env = e
	paymentGateway = gw
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return false
	}
	return true
}

// PathID parses a numeric :id-style path parameter.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name)
		return 0, false
	}
	return id, true
}
