package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-api/internal/core/ports"
)

// UserHandler serves the public status list and the admin user-management
// surface. Role gating happens in the router's middleware chain; the handlers
// only extract caller identity and delegate.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type toggleRoleRequest struct {
	TargetUserID int64  `json:"target_user_id" validate:"required"`
	RoleName     string `json:"role_name" validate:"required"`
}

type toggleActiveRequest struct {
	TargetUserID int64 `json:"target_user_id" validate:"required"`
}

type updateUserRequest struct {
	GroupID *int64 `json:"group_id"`
}

// PublicStatus lists active, non-super-admin users with their online flag.
//
// @Summary      Public user status board
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.UserStatus
// @Router       /api/users/status [get]
func (h *UserHandler) PublicStatus(c echo.Context) error {
	users, err := h.userService.ListPublicStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// AdminUsers lists the full roster with roles, group and online flag.
//
// @Summary      Admin user roster
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.UserDetail
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) AdminUsers(c echo.Context) error {
	users, err := h.userService.ListAdminUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ToggleRole adds or removes a named role on the target user.
//
// @Summary      Toggle a role assignment
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      toggleRoleRequest  true  "Target and role"
// @Success      200   {object}  map[string]any
// @Router       /api/admin/toggle-role [post]
func (h *UserHandler) ToggleRole(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req toggleRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	nowHeld, err := h.userService.ToggleRole(c.Request().Context(), callerID, req.TargetUserID, req.RoleName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "has_role": nowHeld})
}

// ToggleActive bans or unbans the target user.
//
// @Summary      Toggle account active status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      toggleActiveRequest  true  "Target user"
// @Success      200   {object}  map[string]any
// @Router       /api/admin/toggle-status [post]
func (h *UserHandler) ToggleActive(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req toggleActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	nowActive, err := h.userService.ToggleActive(c.Request().Context(), callerID, req.TargetUserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "is_active": nowActive})
}

// UpdateUser reassigns the target user's group (null detaches).
//
// @Summary      Update a user's group
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Target user id"
// @Param        body  body      updateUserRequest  true  "New group"
// @Success      200   {object}  map[string]bool
// @Router       /api/admin/user/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.userService.UpdateUserGroup(c.Request().Context(), targetID, req.GroupID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// DeleteUser permanently removes the target user.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "Target user id"
// @Success      200  {object}  map[string]bool
// @Router       /api/admin/user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), callerID, targetID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// SystemReset irreversibly wipes users, role assignments and presence.
//
// @Summary      Reset the system to factory state
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/admin/system-reset [post]
func (h *UserHandler) SystemReset(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.userService.SystemReset(c.Request().Context(), callerID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "system reset complete",
	})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
