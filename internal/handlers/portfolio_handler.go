package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/middleware"
	"portfolio_admin/internal/services/dto"
	"portfolio_admin/internal/store"
)

type PortfolioHandler struct {
	portfolios *store.PortfolioStore
}

func NewPortfolioHandler(portfolios *store.PortfolioStore) *PortfolioHandler {
	return &PortfolioHandler{
		portfolios: portfolios,
	}
}

func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/portfolios")
	{
		public.GET("", h.ListPortfolios)
		public.GET("/featured", h.GetFeaturedPortfolios)
		public.GET("/:id", h.GetPortfolio)
	}

	// Protected routes
	protected := r.Group("/portfolios")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreatePortfolio)
		protected.PUT("/:id", h.UpdatePortfolio)
		protected.DELETE("/:id", h.DeletePortfolio)
	}
}

func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	if err := h.portfolios.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.portfolios.Items()})
}

func (h *PortfolioHandler) GetFeaturedPortfolios(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, err := h.portfolios.FetchFeatured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	item, err := h.portfolios.FetchOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	var input dto.PortfolioInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	attachments, closers, err := formAttachments(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment"})
		return
	}
	defer closeAll(closers)

	opts := &dto.CreatePortfolioOptions{
		Images:       attachments,
		TechStackIDs: c.PostFormArray("tech_stack_ids"),
	}

	created, err := h.portfolios.Create(c.Request.Context(), input, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	var input dto.PortfolioInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	attachments, closers, err := formAttachments(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment"})
		return
	}
	defer closeAll(closers)

	removedImages, err := parseRemovedImages(c.PostForm("removed_images"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid removed_images payload"})
		return
	}

	opts := &dto.UpdatePortfolioOptions{
		Images:        attachments,
		TechStackIDs:  c.PostFormArray("tech_stack_ids"),
		RemovedImages: removedImages,
	}

	updated, err := h.portfolios.Update(c.Request.Context(), c.Param("id"), input, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePortfolio resolves the cached entity first so blob cleanup can use
// its image URLs, falling back to a canonical read on a cold cache.
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	id := c.Param("id")

	item, ok := h.portfolios.Get(id)
	if !ok {
		fetched, err := h.portfolios.FetchOne(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		item = fetched
	}

	if err := h.portfolios.Remove(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// formAttachments opens every uploaded file under the given form field.
func formAttachments(c *gin.Context, field string) ([]*dto.FileAttachment, []io.Closer, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Scalar-only submissions are fine
		return nil, nil, nil
	}

	files := form.File[field]
	attachments := make([]*dto.FileAttachment, 0, len(files))
	closers := make([]io.Closer, 0, len(files))
	for _, fh := range files {
		att, closer, err := dto.AttachmentFromFileHeader(fh)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		attachments = append(attachments, att)
		closers = append(closers, closer)
	}
	return attachments, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		closer.Close()
	}
}

func parseRemovedImages(raw string) ([]dto.RemovedImage, error) {
	if raw == "" {
		return nil, nil
	}
	var removed []dto.RemovedImage
	if err := json.Unmarshal([]byte(raw), &removed); err != nil {
		return nil, err
	}
	return removed, nil
}

// respondError maps AppError HTTP codes; everything else is a 500.
func respondError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if appErrors.As(err, &appErr) {
		c.JSON(appErr.HTTPCode, appErr)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
