package handler

import (
	"net/http"

	"mrp/internal/microservices/http-api/dto"
	"mrp/internal/microservices/http-api/middleware"
	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RatingHandler struct {
	ratings service.RatingService
	media   service.MediaService
	guard   service.AuthorizationGuard
	log     zerolog.Logger
}

func NewRatingHandler(ratings service.RatingService, media service.MediaService, guard service.AuthorizationGuard, log zerolog.Logger) *RatingHandler {
	return &RatingHandler{
		ratings: ratings,
		media:   media,
		guard:   guard,
		log:     log,
	}
}

// RegisterRoutes mounts under /api/ratings. Every route needs a session.
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("", middleware.RequireAuth())
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)
	authed.POST("/:id/like", h.Like)
	authed.DELETE("/:id/like", h.Unlike)
	authed.POST("/:id/confirm", h.Confirm)
}

// ownedRating loads the rating and answers 404/403 itself when the caller
// may not touch it.
func (h *RatingHandler) ownedRating(c *gin.Context, id int64) (*models.Rating, bool) {
	rating, err := h.ratings.GetRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	if !h.guard.Authorize(middleware.CurrentUser(c), rating.UserID) {
		respondError(c, h.log, service.ErrForbidden)
		return nil, false
	}
	return rating, true
}

func (h *RatingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Stars == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "stars is required"})
		return
	}
	if !models.ValidStars(*req.Stars) {
		respondError(c, h.log, service.ErrInvalidStarValue)
		return
	}
	if _, ok := h.ownedRating(c, id); !ok {
		return
	}

	ctx := c.Request.Context()
	updated, err := h.ratings.UpdateRating(ctx, id, req.Stars, req.Comment, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !updated {
		// deleted between the lookup and the write
		respondError(c, h.log, service.ErrRatingNotFound)
		return
	}

	rating, err := h.ratings.GetRating(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRating(rating))
}

func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.ownedRating(c, id); !ok {
		return
	}

	deleted, err := h.ratings.DeleteRating(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !deleted {
		respondError(c, h.log, service.ErrRatingNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RatingHandler) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	like, err := h.ratings.LikeRating(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromLike(like))
}

func (h *RatingHandler) Unlike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	removed, err := h.ratings.UnlikeRating(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "like not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Confirm is open to the creator of the rated entry only.
func (h *RatingHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rating, err := h.ratings.GetRating(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	entry, err := h.media.Get(ctx, rating.EntryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !h.guard.Authorize(middleware.CurrentUser(c), entry.CreatorID) {
		respondError(c, h.log, service.ErrForbidden)
		return
	}

	confirmed, err := h.ratings.ConfirmRating(ctx, rating)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRating(confirmed))
}
