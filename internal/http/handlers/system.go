package handlers

import (
	"net/http"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unreachable: " + err.Error()})
		return
	}
	for _, table := range []string{"users", "fields", "bookings", "payments"} {
		if !db.HasTable(intconfig.DB, table) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing table: " + table})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}
