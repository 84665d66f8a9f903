package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/itemvault/internal/domain"
	"github.com/vedran77/itemvault/internal/repository"
	"github.com/vedran77/itemvault/internal/storage"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidItemID    = errors.New("invalid item id")
	ErrNoFieldsProvided = errors.New("no fields provided")
)

type ItemService struct {
	itemRepo repository.ItemRepository
	images   storage.ImageStore
}

func NewItemService(itemRepo repository.ItemRepository, images storage.ImageStore) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		images:   images,
	}
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CreateItemInput struct {
	Name  string       `json:"name"`
	Age   *int         `json:"age"`
	City  string       `json:"city"`
	Image *ImageUpload `json:"-"`
}

type UpdateItemInput struct {
	Name  *string      `json:"name"`
	Age   *int         `json:"age"`
	City  *string      `json:"city"`
	Image *ImageUpload `json:"-"`
}

func (s *ItemService) Create(ctx context.Context, ownerID *uuid.UUID, input CreateItemInput) (*domain.Item, error) {
	item := &domain.Item{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		City:      strings.TrimSpace(input.City),
		CreatedBy: ownerID,
	}
	if input.Age != nil {
		item.Age = *input.Age
	}

	if input.Image != nil {
		url, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		item.Image = &url
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		if input.Image != nil {
			// the saved image has no row pointing at it
			if delErr := s.images.Delete(ctx, input.Image.Filename); delErr != nil {
				err = errors.Join(err, delErr)
			}
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return item, nil
}

func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (s *ItemService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Update merges the supplied, non-blank fields into the stored item. An
// attached image counts as a supplied field.
func (s *ItemService) Update(ctx context.Context, id string, input UpdateItemInput) (*domain.Item, error) {
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}

	patch := domain.ItemPatch{
		Name: nonBlank(input.Name),
		Age:  input.Age,
		City: nonBlank(input.City),
	}
	if patch.IsEmpty() && input.Image == nil {
		return nil, ErrNoFieldsProvided
	}

	if input.Image != nil {
		// avoid writing an orphan file for an item that does not exist
		existing, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrItemNotFound
		}

		url, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &url
	}

	item, err := s.itemRepo.Update(ctx, itemID, patch)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Delete removes the item and returns its last stored state.
func (s *ItemService) Delete(ctx context.Context, id string) (*domain.Item, error) {
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.Delete(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *ItemService) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	url, err := s.images.Save(ctx, img.Filename, img.ContentType, img.Body)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return url, nil
}

func parseItemID(id string) (uuid.UUID, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidItemID
	}
	return itemID, nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
