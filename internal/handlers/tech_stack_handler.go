package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_admin/internal/middleware"
	"portfolio_admin/internal/services/dto"
	"portfolio_admin/internal/store"
)

type TechStackHandler struct {
	stacks *store.TechStackStore
}

func NewTechStackHandler(stacks *store.TechStackStore) *TechStackHandler {
	return &TechStackHandler{
		stacks: stacks,
	}
}

func (h *TechStackHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/tech-stacks")
	{
		public.GET("", h.ListTechStacks)
		public.GET("/:id", h.GetTechStack)
	}

	// Protected routes
	protected := r.Group("/tech-stacks")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateTechStack)
		protected.PUT("/:id", h.UpdateTechStack)
		protected.DELETE("/:id", h.DeleteTechStack)
	}
}

func (h *TechStackHandler) ListTechStacks(c *gin.Context) {
	if err := h.stacks.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.stacks.Items()})
}

func (h *TechStackHandler) GetTechStack(c *gin.Context) {
	item, err := h.stacks.FetchOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *TechStackHandler) CreateTechStack(c *gin.Context) {
	var input dto.TechStackInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	icon, closer, err := formAttachment(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment"})
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	opts := &dto.CreateTechStackOptions{
		ImageFile: icon,
		SvgCode:   c.PostForm("svg_code"),
	}

	created, err := h.stacks.Create(c.Request.Context(), input, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TechStackHandler) UpdateTechStack(c *gin.Context) {
	var input dto.TechStackInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	icon, closer, err := formAttachment(c, "icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment"})
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	opts := &dto.UpdateTechStackOptions{
		ImageFile: icon,
		SvgCode:   c.PostForm("svg_code"),
	}

	id := c.Param("id")

	// Blob cleanup compares against what was stored before this update.
	if previous, ok := h.stacks.Get(id); ok {
		opts.PreviousSource = previous.Source
	} else if fetched, err := h.stacks.FetchOne(c.Request.Context(), id); err == nil {
		opts.PreviousSource = fetched.Source
	}

	updated, err := h.stacks.Update(c.Request.Context(), id, input, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TechStackHandler) DeleteTechStack(c *gin.Context) {
	id := c.Param("id")

	item, ok := h.stacks.Get(id)
	if !ok {
		fetched, err := h.stacks.FetchOne(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		item = fetched
	}

	if err := h.stacks.Remove(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// formAttachment opens a single optional uploaded file.
func formAttachment(c *gin.Context, field string) (*dto.FileAttachment, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Absent file is a valid submission
		return nil, nil, nil
	}
	return dto.AttachmentFromFileHeader(fh)
}
