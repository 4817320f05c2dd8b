package models

import "strings"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:120;not null" json:"slug"`

	RecipeCategories []RecipeCategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Slugify lowercases a category name and replaces spaces with hyphens
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// RecipeCategory links a recipe to one of its categories
type RecipeCategory struct {
	RecipeID   uint     `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint     `gorm:"primaryKey;autoIncrement:false;index"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}
