package models

// Role groups users for role-targeted notification broadcasts.
type Role struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`

	Users []User `gorm:"many2many:user_roles;" json:"users,omitempty"`
}
