package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/api/metrics"
	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

// InvitationHandler serves the admin-only invitation endpoints.
type InvitationHandler struct {
	service ports.InvitationService
	now     func() time.Time
}

func NewInvitationHandler(service ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service, now: time.Now}
}

// Create handles POST /invitations.
//
// @Summary      Invite a user
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvitationRequest  true  "Invitee email"
// @Success      201   {object}  invitationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /invitations [post]
func (h *InvitationHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createInvitationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inv, err := h.service.Create(c.Request().Context(), req.Email, identity.ID)
	if err != nil {
		return err
	}

	metrics.InvitationsIssuedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, h.toResponse(inv))
}

// List handles GET /invitations and returns the caller's invitations.
//
// @Summary      List my invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   invitationResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invitations, err := h.service.List(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	out := make([]invitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		out = append(out, h.toResponse(inv))
	}
	return c.JSON(http.StatusOK, out)
}

// Resend handles PATCH /invitations/:id/resend.
//
// @Summary      Resend an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation id"
// @Success      200  {object}  invitationResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /invitations/{id}/resend [patch]
func (h *InvitationHandler) Resend(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	inv, err := h.service.Resend(c.Request().Context(), c.Param("id"), identity.ID)
	if err != nil {
		return err
	}

	metrics.InvitationsIssuedTotal.WithLabelValues("resent").Inc()
	return c.JSON(http.StatusOK, h.toResponse(inv))
}

func (h *InvitationHandler) toResponse(inv *domain.Invitation) invitationResponse {
	return invitationResponse{
		ID:          inv.ID,
		Email:       inv.Email,
		Token:       inv.Token,
		ExpiresAt:   inv.ExpiresAt,
		IsUsed:      inv.IsUsed,
		Status:      string(inv.State(h.now())),
		InvitedByID: inv.InvitedByID,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}
