package handler

import (
	"net/http"

	"mrp/internal/microservices/http-api/dto"
	"mrp/internal/microservices/http-api/middleware"
	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type MediaHandler struct {
	media     service.MediaService
	ratings   service.RatingService
	favorites service.FavoriteService
	log       zerolog.Logger
}

func NewMediaHandler(
	media service.MediaService,
	ratings service.RatingService,
	favorites service.FavoriteService,
	log zerolog.Logger,
) *MediaHandler {
	return &MediaHandler{
		media:     media,
		ratings:   ratings,
		favorites: favorites,
		log:       log,
	}
}

// RegisterRoutes mounts under /api/media.
func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)

	authed := rg.Group("", middleware.RequireAuth())
	authed.GET("", h.List)
	authed.POST("", h.Create)
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)

	authed.POST("/:id/rate", h.Rate)
	authed.GET("/:id/ratings", h.ListRatings)

	authed.GET("/:id/favorite", h.ListFavorites)
	authed.POST("/:id/favorite", h.AddFavorite)
	authed.DELETE("/:id/favorite", h.RemoveFavorite)
}

func toMediaInput(req dto.MediaRequest) service.MediaInput {
	return service.MediaInput{
		Title:          req.Title,
		Description:    req.Description,
		MediaType:      req.MediaType,
		ReleaseYear:    req.ReleaseYear,
		AgeRestriction: req.AgeRestriction,
		Genres:         req.Genres,
	}
}

// List filters on the query parameters
// query: title, genre, mediaType, releaseYear, ageRestriction, rating, sortBy
func (h *MediaHandler) List(c *gin.Context) {
	q := service.MediaQuery{
		Title:          c.Query("title"),
		Genre:          c.Query("genre"),
		MediaType:      c.Query("mediaType"),
		ReleaseYear:    c.Query("releaseYear"),
		AgeRestriction: c.Query("ageRestriction"),
		Rating:         c.Query("rating"),
		SortBy:         c.Query("sortBy"),
	}

	entries, err := h.media.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMediaList(entries))
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.media.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMedia(entry))
}

func (h *MediaHandler) Create(c *gin.Context) {
	var req dto.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.media.Create(c.Request.Context(), middleware.CurrentUser(c), toMediaInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromMedia(entry))
}

func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.media.Update(c.Request.Context(), id, middleware.CurrentUser(c), toMediaInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMedia(entry))
}

func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.media.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MediaHandler) Rate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	rating, err := h.ratings.Rate(c.Request.Context(), id, user.ID, req.Stars, req.Comment)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRating(rating))
}

func (h *MediaHandler) ListRatings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.media.Get(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	ratings, err := h.ratings.RatingsForEntry(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRatingList(ratings))
}

func (h *MediaHandler) ListFavorites(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.media.Get(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	favs, err := h.favorites.FavoritesForEntry(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromFavoriteList(favs))
}

func (h *MediaHandler) AddFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	fav, err := h.favorites.AddFavorite(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromFavorite(fav))
}

func (h *MediaHandler) RemoveFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	removed, err := h.favorites.RemoveFavorite(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
