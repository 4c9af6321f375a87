package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/model"
	"github.com/alex8098/opentable-clone/internal/repository"
)

// ReviewHandler creates and lists restaurant reviews.  Creating a
// review recomputes the restaurant's aggregate rating inside the same
// transaction, so readers never observe a review without its effect on
// the rating.
type ReviewHandler struct {
	Reviews     *repository.ReviewRepo
	Restaurants *repository.RestaurantRepo
}

func NewReviewHandler(rv *repository.ReviewRepo, r *repository.RestaurantRepo) *ReviewHandler {
	if rv == nil || r == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: rv, Restaurants: r}
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /v1/restaurants/:id/reviews (authenticated).
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	if _, err := h.Restaurants.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.Reviews.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rv := &model.Review{
		UserID:       uid,
		RestaurantID: restaurantID,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.CreateTx(ctx, tx, rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	if err := h.Restaurants.UpdateRatingTx(ctx, tx, restaurantID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update rating failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":            rv.ID,
		"user_id":       rv.UserID,
		"restaurant_id": rv.RestaurantID,
		"rating":        rv.Rating,
		"comment":       rv.Comment,
		"created_at":    rv.CreatedAt,
	})
}

// List handles GET /v1/restaurants/:id/reviews.  Public.
func (h *ReviewHandler) List(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	page, limit := pagination(c)
	list, total, err := h.Reviews.ListByRestaurant(c.Request().Context(), restaurantID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews":    list,
		"pagination": pageMeta{Page: page, Limit: limit, Total: total},
	})
}
