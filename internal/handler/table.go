package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alex8098/opentable-clone/internal/model"
	"github.com/alex8098/opentable-clone/internal/repository"
)

// TableHandler manages a restaurant's floor inventory.  Tables are
// bookkeeping for owners; the availability rules work off the
// restaurant's aggregate numbers, not individual table rows.
type TableHandler struct {
	Tables      *repository.TableRepo
	Restaurants *repository.RestaurantRepo
}

func NewTableHandler(t *repository.TableRepo, r *repository.RestaurantRepo) *TableHandler {
	if t == nil || r == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: t, Restaurants: r}
}

type tableReq struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
	IsActive *bool  `json:"is_active"`
}

type tableResp struct {
	ID           uint64 `json:"id"`
	RestaurantID uint64 `json:"restaurant_id"`
	Label        string `json:"label"`
	Capacity     int    `json:"capacity"`
	IsActive     bool   `json:"is_active"`
}

func toTableResp(t *model.Table) tableResp {
	return tableResp{ID: t.ID, RestaurantID: t.RestaurantID, Label: t.Label, Capacity: t.Capacity, IsActive: t.IsActive}
}

// requireOwnership loads the restaurant and checks the caller manages it.
func (h *TableHandler) requireOwnership(c echo.Context, restaurantID uint64) (int, string) {
	uid, err := getUserID(c)
	if err != nil {
		return http.StatusUnauthorized, "unauthorized"
	}
	role, _ := getRole(c)
	rest, err := h.Restaurants.GetByID(c.Request().Context(), restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return http.StatusNotFound, "restaurant not found"
		}
		return http.StatusInternalServerError, "query failed"
	}
	if rest.OwnerID != uid && role != model.RoleAdmin {
		return http.StatusForbidden, "forbidden"
	}
	return 0, ""
}

// Create handles POST /v1/restaurants/:id/tables (owner or ADMIN).
func (h *TableHandler) Create(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	if status, msg := h.requireOwnership(c, restaurantID); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	t := &model.Table{
		RestaurantID: restaurantID,
		Label:        req.Label,
		Capacity:     req.Capacity,
		IsActive:     true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, toTableResp(t))
}

// List handles GET /v1/restaurants/:id/tables (owner or ADMIN).
func (h *TableHandler) List(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	if status, msg := h.requireOwnership(c, restaurantID); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}
	list, err := h.Tables.ListByRestaurant(c.Request().Context(), restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := make([]tableResp, 0, len(list))
	for _, t := range list {
		resp = append(resp, toTableResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": resp})
}

// Update handles PUT /v1/tables/:id (owner of the restaurant or ADMIN).
func (h *TableHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, ownerID, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := getRole(c)
	if ownerID != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Label != "" {
		t.Label = strings.TrimSpace(req.Label)
	}
	if req.Capacity != 0 {
		if req.Capacity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
		}
		t.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Tables.Update(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toTableResp(t))
}

// Delete handles DELETE /v1/tables/:id (owner of the restaurant or ADMIN).
func (h *TableHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	_, ownerID, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := getRole(c)
	if ownerID != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
