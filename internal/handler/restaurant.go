package handler

import (
	"errors"   // errors.Is for sentinel comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing query parameters
	"strings"  // input normalization

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/model"
	"github.com/alex8098/opentable-clone/internal/repository"
)

// RestaurantHandler groups the repositories needed to manage restaurants.
// Mutating methods assume JWT authentication has run; ownership is
// enforced here because admins may operate on any restaurant.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
}

func NewRestaurantHandler(r *repository.RestaurantRepo) *RestaurantHandler {
	if r == nil {
		panic("nil repository passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{Restaurants: r}
}

// restaurantReq is the request body shared by create and update.
type restaurantReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Cuisine     string `json:"cuisine"`
	PriceRange  int    `json:"price_range"`
	ImageURL    string `json:"image_url"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	TotalTables int    `json:"total_tables"`
	Capacity    int    `json:"capacity"`
}

// validate checks the request fields shared by create and update and
// returns a client-facing message when something is off.
func (r *restaurantReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(r.Address) == "" || strings.TrimSpace(r.City) == "" {
		return "address and city are required"
	}
	if r.PriceRange < 1 || r.PriceRange > 4 {
		return "price_range must be between 1 and 4"
	}
	open, err := booking.ParseClock(r.OpeningTime)
	if err != nil {
		return "opening_time must be HH:MM"
	}
	closing, err := booking.ParseClock(r.ClosingTime)
	if err != nil {
		return "closing_time must be HH:MM"
	}
	if !open.Before(closing) {
		return "opening_time must be before closing_time"
	}
	if r.TotalTables < 1 {
		return "total_tables must be at least 1"
	}
	// Every table seats at least one guest, so the seat capacity can
	// never be below the table count.
	if r.Capacity < r.TotalTables {
		return "capacity must be at least total_tables"
	}
	return ""
}

// restaurantResp is the JSON shape of a restaurant across endpoints.
type restaurantResp struct {
	ID          uint64  `json:"id"`
	OwnerID     uint64  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Website     string  `json:"website,omitempty"`
	Cuisine     string  `json:"cuisine,omitempty"`
	PriceRange  int     `json:"price_range"`
	ImageURL    string  `json:"image_url,omitempty"`
	OpeningTime string  `json:"opening_time"`
	ClosingTime string  `json:"closing_time"`
	TotalTables int     `json:"total_tables"`
	Capacity    int     `json:"capacity"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

func toRestaurantResp(r *model.Restaurant) restaurantResp {
	return restaurantResp{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		Phone:       r.Phone,
		Email:       r.Email,
		Website:     r.Website,
		Cuisine:     r.Cuisine,
		PriceRange:  r.PriceRange,
		ImageURL:    r.ImageURL,
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		TotalTables: r.TotalTables,
		Capacity:    r.Capacity,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
}

// Create handles POST /v1/restaurants (OWNER or ADMIN).
func (h *RestaurantHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req restaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	rest := &model.Restaurant{
		OwnerID:     uid,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       req.State,
		ZipCode:     req.ZipCode,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Cuisine:     normalizeCuisine(req.Cuisine),
		PriceRange:  req.PriceRange,
		ImageURL:    req.ImageURL,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		TotalTables: req.TotalTables,
		Capacity:    req.Capacity,
	}
	if err := h.Restaurants.Create(c.Request().Context(), rest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create restaurant failed"})
	}
	return c.JSON(http.StatusCreated, toRestaurantResp(rest))
}

// normalizeCuisine lower-cases and trims a comma-joined cuisine list.
func normalizeCuisine(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// Search handles GET /v1/restaurants.  Public, no authentication.
func (h *RestaurantHandler) Search(c echo.Context) error {
	page, limit := pagination(c)
	minRating, _ := strconv.ParseFloat(c.QueryParam("min_rating"), 64)
	priceRange, _ := strconv.Atoi(c.QueryParam("price_range"))
	f := repository.SearchFilter{
		City:       strings.TrimSpace(c.QueryParam("city")),
		Cuisine:    strings.ToLower(strings.TrimSpace(c.QueryParam("cuisine"))),
		PriceRange: priceRange,
		MinRating:  minRating,
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Page:       page,
		Limit:      limit,
	}
	list, total, err := h.Restaurants.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	resp := make([]restaurantResp, 0, len(list))
	for _, r := range list {
		resp = append(resp, toRestaurantResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"restaurants": resp,
		"pagination":  pageMeta{Page: page, Limit: limit, Total: total},
	})
}

// Get handles GET /v1/restaurants/:id.  Public.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	rest, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRestaurantResp(rest))
}

// Mine handles GET /v1/my/restaurants (OWNER or ADMIN).
func (h *RestaurantHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Restaurants.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := make([]restaurantResp, 0, len(list))
	for _, r := range list {
		resp = append(resp, toRestaurantResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": resp})
}

// loadOwned fetches a restaurant and verifies the caller may manage it.
// Admins pass the ownership check for any restaurant.
func (h *RestaurantHandler) loadOwned(c echo.Context, id uint64) (*model.Restaurant, int, string) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, http.StatusUnauthorized, "unauthorized"
	}
	role, _ := getRole(c)
	rest, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, http.StatusNotFound, "restaurant not found"
		}
		return nil, http.StatusInternalServerError, "query failed"
	}
	if rest.OwnerID != uid && role != model.RoleAdmin {
		return nil, http.StatusForbidden, "forbidden"
	}
	return rest, 0, ""
}

// Update handles PUT /v1/restaurants/:id (owner of the row or ADMIN).
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	rest, status, msg := h.loadOwned(c, id)
	if rest == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req restaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	rest.Name = strings.TrimSpace(req.Name)
	rest.Description = req.Description
	rest.Address = strings.TrimSpace(req.Address)
	rest.City = strings.TrimSpace(req.City)
	rest.State = req.State
	rest.ZipCode = req.ZipCode
	rest.Phone = req.Phone
	rest.Email = req.Email
	rest.Website = req.Website
	rest.Cuisine = normalizeCuisine(req.Cuisine)
	rest.PriceRange = req.PriceRange
	rest.ImageURL = req.ImageURL
	rest.OpeningTime = req.OpeningTime
	rest.ClosingTime = req.ClosingTime
	rest.TotalTables = req.TotalTables
	rest.Capacity = req.Capacity

	if err := h.Restaurants.Update(c.Request().Context(), rest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toRestaurantResp(rest))
}

// Delete handles DELETE /v1/restaurants/:id (owner of the row or ADMIN).
func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	rest, status, msg := h.loadOwned(c, id)
	if rest == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	if err := h.Restaurants.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
