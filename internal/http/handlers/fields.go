package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/http/middleware"
	"fieldbook/internal/repositories"

	"github.com/gin-gonic/gin"
)

var fieldTypes = map[string]bool{"5v5": true, "6v6": true, "11v11": true}

type fieldRequest struct {
	FieldName    string  `json:"field_name"`
	Description  string  `json:"description"`
	FieldType    string  `json:"field_type"`
	PricePerHour float64 `json:"price_per_hour"`
	Address      string  `json:"address"`
	ImageURL     string  `json:"image_url"`
}

func (r fieldRequest) validate() error {
	if strings.TrimSpace(r.FieldName) == "" {
		return domain.ValidationError{Field: "field_name", Msg: "required"}
	}
	if !fieldTypes[r.FieldType] {
		return domain.ValidationError{Field: "field_type", Msg: "must be 5v5, 6v6 or 11v11"}
	}
	if r.PricePerHour <= 0 || r.PricePerHour > 1000 {
		return domain.ValidationError{Field: "price_per_hour", Msg: "must be between 0 and 1000"}
	}
	return nil
}

// GET /api/field
func ListFields(c *gin.Context) {
	filter := models.FieldFilter{
		FieldType: c.Query("field_type"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	repo := repositories.FieldRepository{}
	fields, total, err := repo.List(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	c.JSON(http.StatusOK, gin.H{
		"fields":       fields,
		"total_fields": total,
		"current_page": filter.Page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
	})
}

// GET /api/field/:id
func GetField(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.FieldRepository{}
	field, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": field})
}

// POST /api/field
func CreateField(c *gin.Context) {
	var req fieldRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	field := models.Field{
		FieldName:    strings.TrimSpace(req.FieldName),
		Description:  strings.TrimSpace(req.Description),
		FieldType:    req.FieldType,
		PricePerHour: req.PricePerHour,
		Address:      strings.TrimSpace(req.Address),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		OwnerID:      middleware.GetUserID(c),
	}
	repo := repositories.FieldRepository{}
	if err := repo.Create(&field); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "field created", "field": field})
}

// PATCH /api/field/:id
func UpdateField(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req fieldRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	repo := repositories.FieldRepository{}
	err := repo.Update(id, middleware.GetUserID(c), models.Field{
		FieldName:    strings.TrimSpace(req.FieldName),
		Description:  strings.TrimSpace(req.Description),
		FieldType:    req.FieldType,
		PricePerHour: req.PricePerHour,
		Address:      strings.TrimSpace(req.Address),
		ImageURL:     strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "field updated"})
}

// DELETE /api/field/:id
func DeleteField(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.FieldRepository{}
	if err := repo.Delete(id, middleware.GetUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "field deleted"})
}
