package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/itemvault/internal/domain"
	"github.com/vedran77/itemvault/internal/service"
	"github.com/vedran77/itemvault/internal/storage"
	"github.com/vedran77/itemvault/internal/transport/http/middleware"
	"github.com/vedran77/itemvault/pkg/validator"
)

type ItemService interface {
	Create(ctx context.Context, ownerID *uuid.UUID, input service.CreateItemInput) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, id string, input service.UpdateItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id string) (*domain.Item, error)
}

type ItemHandler struct {
	itemService    ItemService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewItemHandler(itemService ItemService, maxUploadBytes int64, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService:    itemService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeItemRequest(w, r, h.maxUploadBytes)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	defer req.Close()

	input := service.CreateItemInput{Age: req.Age, Image: req.Image}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.City != nil {
		input.City = *req.City
	}

	if errs := validator.ValidateItem(input.Name, input.Age, input.City); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	var ownerID *uuid.UUID
	if user := middleware.GetUser(r.Context()); user != nil {
		ownerID = &user.ID
	}

	item, err := h.itemService.Create(r.Context(), ownerID, input)
	if err != nil {
		h.handleError(w, r, "create item", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.List(r.Context())
	if err != nil {
		h.handleError(w, r, "list items", err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, "get item", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeItemRequest(w, r, h.maxUploadBytes)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	defer req.Close()

	if errs := validator.ValidateItemUpdate(req.Name, req.Age, req.City); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	item, err := h.itemService.Update(r.Context(), r.PathValue("id"), service.UpdateItemInput{
		Name:  req.Name,
		Age:   req.Age,
		City:  req.City,
		Image: req.Image,
	})
	if err != nil {
		h.handleError(w, r, "update item", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, "delete item", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidItemID):
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
	case errors.Is(err, service.ErrNoFieldsProvided):
		writeError(w, http.StatusBadRequest, "NO_FIELDS", "No data to update")
	case errors.Is(err, storage.ErrInvalidFilename):
		writeError(w, http.StatusBadRequest, "INVALID_FILENAME", "Invalid image filename")
	default:
		h.logger.ErrorContext(r.Context(), op, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
