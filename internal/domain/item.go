package domain

import (
	"github.com/google/uuid"
)

type Item struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Age       int        `json:"age"`
	City      string     `json:"city"`
	Image     *string    `json:"image"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

// ItemPatch is a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name  *string
	Age   *int
	City  *string
	Image *string
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.City == nil && p.Image == nil
}
