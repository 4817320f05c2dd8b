package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringList is a list of strings persisted as a JSON text column.
// Values that cannot be decoded scan as an empty list.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}

	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return nil
	}
	*l = decoded
	return nil
}

type Recipe struct {
	ID              uint       `gorm:"primaryKey"`
	Title           string     `gorm:"size:200;not null"`
	Description     string     `gorm:"type:text"`
	Instructions    StringList `gorm:"type:text"`
	Ingredients     StringList `gorm:"type:text"`
	Allergens       StringList `gorm:"type:text"`
	PrepTimeMinutes *int
	Difficulty      string `gorm:"size:50"`
	ImageURL        string `gorm:"size:500"`
	Servings        int    `gorm:"not null;default:1"`
	IsVegan         bool   `gorm:"not null;default:false"`
	Likes           int    `gorm:"not null;default:0;check:likes >= 0"`
	UserID          *uint  `gorm:"index"`
	CreatedAt       time.Time

	User             *User
	RecipeCategories []RecipeCategory `gorm:"constraint:OnDelete:CASCADE"`
}
