package handlers

import (
	"net/http"
	"strconv"

	"fieldbook/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/dashboard?filter=weekly|monthly|yearly
func GetAdminDashboard(c *gin.Context) {
	filter := c.DefaultQuery("filter", "monthly")

	svc := services.ReportsService{}
	overview, err := svc.GetDashboardOverview(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// GET /api/admin/field-owners?page=&limit=
func GetFieldOwners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	svc := services.ReportsService{}
	owners, err := svc.ListFieldOwners(page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners, "page": page})
}
