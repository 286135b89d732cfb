package handlers

import (
	"net/http"
	"strings"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/http/middleware"
	"fieldbook/internal/repositories"

	"github.com/gin-gonic/gin"
)

type wallPostRequest struct {
	TeamID  int64  `json:"team_id"`
	Content string `json:"content"`
}

// POST /api/wall
func CreateWallPost(c *gin.Context) {
	var req wallPostRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.TeamID <= 0 || strings.TrimSpace(req.Content) == "" {
		RespondDomainError(c, domain.ValidationError{Msg: "team_id and content are required"})
		return
	}

	post := models.WallPost{
		TeamID:  req.TeamID,
		UserID:  middleware.GetUserID(c),
		Content: strings.TrimSpace(req.Content),
	}
	repo := repositories.WallRepository{}
	if err := repo.CreatePost(&post); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "post created", "post": post})
}

// GET /api/wall/:id (team id)
func GetTeamPosts(c *gin.Context) {
	teamID, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.WallRepository{}
	posts, err := repo.ListTeamPosts(teamID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type commentRequest struct {
	Text string `json:"text"`
}

// POST /api/wall/:id/comments (post id)
func AddWallComment(c *gin.Context) {
	postID, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "text", Msg: "required"})
		return
	}

	comment := models.WallComment{
		PostID: postID,
		UserID: middleware.GetUserID(c),
		Text:   strings.TrimSpace(req.Text),
	}
	repo := repositories.WallRepository{}
	if err := repo.AddComment(&comment); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment added", "comment": comment})
}
