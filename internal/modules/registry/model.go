package registry

import "github.com/georgemunganga/shophub/internal/modules/catalog"

// FirstID is the first identifier handed out to a local product.
const FirstID = 1000

// Snapshot is the persisted form of a registry.
type Snapshot struct {
	Products []catalog.Product `json:"products"`
	NextID   int               `json:"nextId"`
}

// ProductInput holds the fields of a new local product.
type ProductInput struct {
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Description string  `json:"description" validate:"required"`
	Image       string  `json:"image" validate:"required,url"`
	Category    string  `json:"category" validate:"required"`
}

// ProductPatch changes some fields of a local product. Nil fields are kept.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,url"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1"`
}

// PatchFrom turns a full input into a patch touching every field.
func PatchFrom(in ProductInput) ProductPatch {
	return ProductPatch{
		Title:       &in.Title,
		Price:       &in.Price,
		Description: &in.Description,
		Image:       &in.Image,
		Category:    &in.Category,
	}
}
