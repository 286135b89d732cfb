package models

// User roles.
const (
	RoleUser       = "user"
	RoleFieldOwner = "field_owner"
	RoleAdmin      = "admin"
)

type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Position        string `json:"position,omitempty"`
	FavoriteClub    string `json:"favorite_club,omitempty"`
	Location        string `json:"location,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	StripeAccountID string `json:"stripe_account_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// HasPayoutAccount reports whether the owner finished payout onboarding.
func (u User) HasPayoutAccount() bool {
	return u.StripeAccountID != ""
}

// UserUpdate carries the mutable profile fields; nil means untouched.
type UserUpdate struct {
	Name         *string `json:"name"`
	Position     *string `json:"position"`
	FavoriteClub *string `json:"favorite_club"`
	Location     *string `json:"location"`
	AvatarURL    *string `json:"avatar_url"`
}
