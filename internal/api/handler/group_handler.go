package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-api/internal/core/ports"
)

type GroupHandler struct {
	groupService ports.GroupService
}

func NewGroupHandler(groupService ports.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type createGroupRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=256"`
	ParentID    *int64 `json:"parent_id"`
}

// List returns all groups with their parent's name resolved.
//
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Success      200  {array}  domain.GroupWithParent
// @Router       /api/groups [get]
func (h *GroupHandler) List(c echo.Context) error {
	groups, err := h.groupService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// Create inserts a new group, optionally nested under a parent.
//
// @Summary      Create a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body      createGroupRequest  true  "Group details"
// @Success      201   {object}  domain.Group
// @Failure      400   {object}  map[string]string
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := h.groupService.Create(c.Request().Context(), req.Name, req.Description, req.ParentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, group)
}

// Delete removes a group, promoting its direct children to root and detaching
// its member users.
//
// @Summary      Delete a group
// @Tags         groups
// @Produce      json
// @Param        id  path  int  true  "Group id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /api/groups/{id} [delete]
func (h *GroupHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.groupService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
