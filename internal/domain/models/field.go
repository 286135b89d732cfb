package models

type Field struct {
	ID           int64   `json:"id"`
	FieldName    string  `json:"field_name"`
	Description  string  `json:"description"`
	FieldType    string  `json:"field_type"` // 5v5, 6v6, 11v11
	PricePerHour float64 `json:"price_per_hour"`
	Address      string  `json:"address"`
	ImageURL     string  `json:"image_url"`
	OwnerID      int64   `json:"owner_id"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// FieldFilter narrows field listings.
type FieldFilter struct {
	FieldType string
	MinPrice  float64
	MaxPrice  float64
	Page      int
	Limit     int
}
