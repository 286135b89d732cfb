package models

type WallPost struct {
	ID        int64         `json:"id"`
	TeamID    int64         `json:"team_id"`
	UserID    int64         `json:"user_id"`
	UserName  string        `json:"user_name,omitempty"`
	Content   string        `json:"content"`
	Comments  []WallComment `json:"comments,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
}

type WallComment struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}
