package types

import "time"

// RecipeRequest is the body accepted when creating or updating a recipe
type RecipeRequest struct {
	Title           string   `json:"title" binding:"required,max=200"`
	Description     string   `json:"description"`
	Instructions    []string `json:"instructions"`
	Ingredients     []string `json:"ingredients"`
	Allergens       []string `json:"allergens"`
	PrepTimeMinutes *int     `json:"prepTimeMinutes" binding:"omitempty,min=0"`
	Difficulty      string   `json:"difficulty" binding:"max=50"`
	ImageURL        string   `json:"imageUrl" binding:"max=500"`
	Servings        int      `json:"servings" binding:"min=0"`
	IsVegan         bool     `json:"isVegan"`
	CategoryIDs     []uint   `json:"categoryIds"`
}

// RecipeSummary is the list view of a recipe
type RecipeSummary struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"imageUrl"`
	PrepTimeMinutes *int      `json:"prepTimeMinutes"`
	Difficulty      string    `json:"difficulty"`
	Servings        int       `json:"servings"`
	IsVegan         bool      `json:"isVegan"`
	Likes           int       `json:"likes"`
	Ingredients     []string  `json:"ingredients"`
	Allergens       []string  `json:"allergens"`
	Categories      []string  `json:"categories"`
	UserID          *uint     `json:"userId"`
	AuthorName      string    `json:"authorName"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RecipeDetail is the full view of a single recipe
type RecipeDetail struct {
	RecipeSummary
	Instructions []string `json:"instructions"`
	CategoryIDs  []uint   `json:"categoryIds"`
}

// RecipeSort selects the ordering of a recipe listing
type RecipeSort string

const (
	SortNewest  RecipeSort = "newest"
	SortOldest  RecipeSort = "oldest"
	SortPopular RecipeSort = "popular"
	SortLikes   RecipeSort = "likes"
)

// Valid reports whether s is a known sort key; the empty key means newest
func (s RecipeSort) Valid() bool {
	switch s {
	case "", SortNewest, SortOldest, SortPopular, SortLikes:
		return true
	}
	return false
}

// RecipeFilter narrows and orders a recipe listing. Zero values mean no filter.
type RecipeFilter struct {
	UserID           *uint      `form:"-"`
	Category         string     `form:"category"`
	Query            string     `form:"q"`
	VeganOnly        bool       `form:"vegan"`
	ExcludeAllergens []string   `form:"-"`
	Sort             RecipeSort `form:"sort"`
	Limit            int        `form:"limit" binding:"min=0,max=100"`
	Offset           int        `form:"offset" binding:"min=0"`
}

// LikesResponse is returned by like and unlike
type LikesResponse struct {
	Likes int `json:"likes"`
}
