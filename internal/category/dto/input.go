package dto

type CreateCategoryInput struct {
	Name        string
	Description string
}

type UpdateCategoryInput struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
}
