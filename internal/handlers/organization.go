package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearcove/task-tracker-api/internal/dto"
	apierrors "github.com/clearcove/task-tracker-api/internal/errors"
	"github.com/clearcove/task-tracker-api/internal/middleware"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// OrganizationHandler coordinates organization-related HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates an organization with the caller as its admin.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Create(user, req.Name)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org, true))
}

// JoinOrganization adds the caller to an organization by invite code.
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Join(user, req.InviteCode)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, false))
}

// GetOrganization returns the caller's organization with its member list.
// The invite code is included for organization admins only.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	org, err := h.orgService.Details(user)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(*org, org.Members, user.IsOrgAdmin()))
}

func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrgNameRequired):
		apierrors.BadRequest(c, "Organization name is required")
	case errors.Is(err, services.ErrInviteCodeRequired):
		apierrors.BadRequest(c, "Invite code is required")
	case errors.Is(err, services.ErrInviteCodeNotFound):
		apierrors.NotFound(c, "Invite code not found")
	case errors.Is(err, services.ErrAlreadyInOrganization):
		apierrors.Conflict(c, "You already belong to an organization")
	case errors.Is(err, services.ErrOrgNotFound):
		apierrors.NotFound(c, "Organization not found")
	case errors.Is(err, services.ErrFailedToCreateOrg):
		apierrors.StoreFailure(c, "Failed to create organization", err)
	default:
		apierrors.StoreFailure(c, "", err)
	}
}
