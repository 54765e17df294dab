package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// ItemHandler serves the per-date item routes for one item kind. Tasks and
// notes share it; only the flag field name differs.
type ItemHandler[T any, PT repository.EntryPointer[T]] struct {
	service *services.ItemService[T, PT]
	kind    models.Kind
}

type (
	TaskHandler = ItemHandler[models.Task, *models.Task]
	NoteHandler = ItemHandler[models.Note, *models.Note]
)

func NewItemHandler[T any, PT repository.EntryPointer[T]](service *services.ItemService[T, PT]) *ItemHandler[T, PT] {
	return &ItemHandler[T, PT]{
		service: service,
		kind:    service.Kind(),
	}
}

// List returns the user's items for ?date=, oldest first
func (h *ItemHandler[T, PT]) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Create adds an item. The date defaults to today.
func (h *ItemHandler[T, PT]) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	type CreateRequest struct {
		Text string `json:"text"`
		Date string `json:"date"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Create(c.Request.Context(), userID, req.Text, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Get returns a single owned item
func (h *ItemHandler[T, PT]) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Update sets the completion flag and/or the text of an owned item
func (h *ItemHandler[T, PT]) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var patch services.ItemPatch
	if raw, exists := body[h.kind.Flag]; exists {
		var flag bool
		if err := json.Unmarshal(raw, &flag); err != nil || string(raw) == "null" {
			apierrors.BadRequestWithDetails(c, fmt.Sprintf("%s must be a boolean", h.kind.Flag), fieldDetail(h.kind.Flag))
			return
		}
		patch.Flag = &flag
	}
	if raw, exists := body["text"]; exists {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || string(raw) == "null" {
			apierrors.BadRequestWithDetails(c, "text must be a string", fieldDetail("text"))
			return
		}
		patch.Text = &text
	}

	item, err := h.service.Update(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete permanently removes an owned item
func (h *ItemHandler[T, PT]) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Count counts pending items for ?date=. Passing the flag as a query
// parameter (?completed=true) counts that state instead.
func (h *ItemHandler[T, PT]) Count(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	flag := false
	if raw, exists := c.GetQuery(h.kind.Flag); exists {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequestWithDetails(c, fmt.Sprintf("%s must be a boolean", h.kind.Flag), fieldDetail(h.kind.Flag))
			return
		}
		flag = parsed
	}

	count, err := h.service.Count(c.Request.Context(), userID, c.Query("date"), &flag)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func fieldDetail(field string) map[string]string {
	return map[string]string{"field": field}
}

func (h *ItemHandler[T, PT]) userID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthenticated(c, "")
	}
	return userID, ok
}

func (h *ItemHandler[T, PT]) itemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s id", h.kind.Name))
		return 0, false
	}
	return id, true
}
