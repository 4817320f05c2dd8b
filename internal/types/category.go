package types

// CategoryRequest is the body accepted when creating or updating a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"max=120"`
}
