package handlers

import (
	"net/http"
	"strings"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/repositories"

	"github.com/gin-gonic/gin"
)

type planRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Benefits     string  `json:"benefits"`
	BillingCycle string  `json:"billing_cycle"`
}

func (r planRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	if r.Price <= 0 {
		return domain.ValidationError{Field: "price", Msg: "must be positive"}
	}
	if r.BillingCycle != "monthly" && r.BillingCycle != "yearly" {
		return domain.ValidationError{Field: "billing_cycle", Msg: "must be monthly or yearly"}
	}
	return nil
}

// GET /api/plan
func ListPlans(c *gin.Context) {
	repo := repositories.PlanRepository{}
	plans, err := repo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GET /api/plan/:id
func GetPlan(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.PlanRepository{}
	plan, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// POST /api/plan
func CreatePlan(c *gin.Context) {
	var req planRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	plan := models.Plan{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Description:  strings.TrimSpace(req.Description),
		Benefits:     strings.TrimSpace(req.Benefits),
		BillingCycle: req.BillingCycle,
	}
	repo := repositories.PlanRepository{}
	if err := repo.Create(&plan); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "plan created", "plan": plan})
}

// PATCH /api/plan/:id
func UpdatePlan(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req planRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	repo := repositories.PlanRepository{}
	err := repo.Update(id, models.Plan{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Description:  strings.TrimSpace(req.Description),
		Benefits:     strings.TrimSpace(req.Benefits),
		BillingCycle: req.BillingCycle,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan updated"})
}

// DELETE /api/plan/:id
func DeletePlan(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.PlanRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}
