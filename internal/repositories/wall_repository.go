package repositories

import (
	"database/sql"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

type WallRepository struct {
	DB *sql.DB
}

func (r WallRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r WallRepository) CreatePost(p *models.WallPost) error {
	res, err := r.db().Exec(`
		INSERT INTO wall_posts (team_id, user_id, content)
		VALUES (?, ?, ?)`, p.TeamID, p.UserID, p.Content)
	if err != nil {
		return domain.InternalError{Msg: "failed to create post", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	p.ID = id
	return nil
}

// ListTeamPosts returns a team's posts newest first, with author names
// and comments attached.
func (r WallRepository) ListTeamPosts(teamID int64) ([]models.WallPost, error) {
	rows, err := r.db().Query(`
		SELECT p.id, p.team_id, p.user_id, COALESCE(u.name, ''), p.content
		FROM wall_posts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.team_id = ?
		ORDER BY p.created_at DESC`, teamID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	posts := []models.WallPost{}
	for rows.Next() {
		var p models.WallPost
		if err := rows.Scan(&p.ID, &p.TeamID, &p.UserID, &p.UserName, &p.Content); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}

	for i := range posts {
		comments, err := r.listComments(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}
	return posts, nil
}

// AddComment appends a comment to an existing post.
func (r WallRepository) AddComment(c *models.WallComment) error {
	var exists int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM wall_posts WHERE id = ?`, c.PostID).Scan(&exists)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if exists == 0 {
		return domain.NotFoundError{Resource: "post"}
	}

	res, err := r.db().Exec(`
		INSERT INTO wall_comments (post_id, user_id, text)
		VALUES (?, ?, ?)`, c.PostID, c.UserID, c.Text)
	if err != nil {
		return domain.InternalError{Msg: "failed to add comment", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	c.ID = id
	return nil
}

func (r WallRepository) listComments(postID int64) ([]models.WallComment, error) {
	rows, err := r.db().Query(`
		SELECT c.id, c.post_id, c.user_id, COALESCE(u.name, ''), c.text
		FROM wall_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at`, postID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.WallComment{}
	for rows.Next() {
		var c models.WallComment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.Text); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
