package handlers

import (
	"net/http"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/http/middleware"
	"fieldbook/internal/repositories"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GET /api/user/profile
func GetProfile(c *gin.Context) {
	repo := repositories.UserRepository{}
	user, err := repo.GetByID(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PATCH /api/user/profile
func UpdateProfile(c *gin.Context) {
	var patch models.UserUpdate
	if !BindJSONOrError(c, &patch) {
		return
	}

	repo := repositories.UserRepository{}
	userID := middleware.GetUserID(c)
	if err := repo.UpdateProfile(userID, patch); err != nil {
		RespondDomainError(c, err)
		return
	}
	user, err := repo.GetByID(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": user})
}

// Weighted profile fields for the completion percentage.
var completionWeights = []struct {
	weight int
	filled func(models.User) bool
}{
	{5, func(u models.User) bool { return u.Name != "" }},
	{15, func(u models.User) bool { return u.Email != "" }},
	{15, func(u models.User) bool { return u.AvatarURL != "" }},
	{5, func(u models.User) bool { return u.Role != "" }},
	{20, func(u models.User) bool { return u.Position != "" }},
	{20, func(u models.User) bool { return u.FavoriteClub != "" }},
	{10, func(u models.User) bool { return u.Location != "" }},
}

// GET /api/user/profile/completion
func GetProfileCompletion(c *gin.Context) {
	repo := repositories.UserRepository{}
	user, err := repo.GetByID(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	total, earned := 0, 0
	for _, w := range completionWeights {
		total += w.weight
		if w.filled(user) {
			earned += w.weight
		}
	}
	pct := 0
	if total > 0 {
		pct = earned * 100 / total
	}
	c.JSON(http.StatusOK, gin.H{"completion_percentage": pct})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// POST /api/user/change-password
func ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		RespondDomainError(c, domain.ValidationError{Msg: "new password and confirmation do not match"})
		return
	}
	if len(req.NewPassword) < 6 {
		RespondDomainError(c, domain.ValidationError{Field: "new_password", Msg: "must be at least 6 characters"})
		return
	}

	repo := repositories.UserRepository{}
	user, err := repo.GetByID(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	_, hash, err := repo.GetCredentials(user.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if err := repo.UpdatePassword(user.ID, string(newHash)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
