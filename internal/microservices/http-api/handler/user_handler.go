package handler

import (
	"net/http"

	"mrp/internal/microservices/http-api/dto"
	"mrp/internal/microservices/http-api/middleware"
	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	users     service.UserService
	sessions  service.SessionService
	media     service.MediaService
	ratings   service.RatingService
	favorites service.FavoriteService
	log       zerolog.Logger
}

func NewUserHandler(
	users service.UserService,
	sessions service.SessionService,
	media service.MediaService,
	ratings service.RatingService,
	favorites service.FavoriteService,
	log zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		users:     users,
		sessions:  sessions,
		media:     media,
		ratings:   ratings,
		favorites: favorites,
		log:       log,
	}
}

// RegisterRoutes mounts under /api/users. OptionalAuth must already run on rg.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)

	authed := rg.Group("", middleware.RequireAuth())
	authed.POST("/logout", h.Logout)
	authed.GET("/:id/profile", h.GetProfile)
	authed.PUT("/:id/profile", h.UpdateProfile)
	authed.GET("/:id/ratings", h.ListRatings)
	authed.GET("/:id/favorites", h.ListFavorites)
	authed.GET("/:id/media", h.ListMedia)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Message:  "user registered",
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// stay vague, same as a wrong password
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller := middleware.CurrentUser(c)

	profile, err := h.users.GetProfile(c.Request.Context(), id, caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProfile(caller, profile))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	caller := middleware.CurrentUser(c)

	profile, err := h.users.UpdateProfile(c.Request.Context(), id, caller, service.ProfileUpdate{
		Email:         req.Email,
		FavoriteGenre: req.FavoriteGenre,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProfile(caller, profile))
}

func (h *UserHandler) ListRatings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetUser(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	ratings, err := h.ratings.RatingsForUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	avg, err := h.ratings.UserAverageRating(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserRatingsResponse{
		RatingListResponse: dto.FromRatingList(ratings),
		AverageStars:       avg,
	})
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetUser(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	favs, err := h.favorites.FavoritesForUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromFavoriteList(favs))
}

// ListMedia lists the entries the user created.
func (h *UserHandler) ListMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetUser(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	entries, err := h.media.ListByCreator(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMediaList(entries))
}
