package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/dto"
	apierrors "github.com/yukikurage/join-board/internal/errors"
	"github.com/yukikurage/join-board/internal/middleware"
	"github.com/yukikurage/join-board/internal/services"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ListContacts returns the user's contacts sorted by name and grouped by first letter.
// A storage failure yields an empty list rather than an error.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	contacts := h.contactService.ListContacts(c.Request.Context(), userID)

	groups := services.GroupContacts(contacts)
	resp := dto.ContactListResponse{
		Contacts: dto.ToContactDTOs(contacts),
		Groups:   make([]dto.ContactGroupDTO, len(groups)),
	}
	for i, g := range groups {
		resp.Groups[i] = dto.ToContactGroupDTO(g.Letter, g.Contacts)
	}

	c.JSON(http.StatusOK, resp)
}

// GetContact returns the contact loaded by RequireContactAccess
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, ok := middleware.GetContact(c)
	if !ok {
		apierrors.InternalError(c, "Contact not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(contact))
}

// CreateContact adds a contact
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateContactRequest struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Color string `json:"color"`
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), userID, services.CreateContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Color: req.Color,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContactDTO(*contact))
}

// UpdateContact changes the fields present in the body
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	contact, ok := middleware.GetContact(c)
	if !ok {
		apierrors.InternalError(c, "Contact not found in context")
		return
	}

	type UpdateContactRequest struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Color *string `json:"color"`
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.contactService.UpdateContact(c.Request.Context(), userID, contact.ID, services.UpdateContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Color: req.Color,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*updated))
}

// DeleteContact removes a contact and unassigns it from every task
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	contact, ok := middleware.GetContact(c)
	if !ok {
		apierrors.InternalError(c, "Contact not found in context")
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, contact.ID); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact deleted successfully",
	})
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrContactNotFound):
		apierrors.NotFound(c, "Contact not found")
	case errors.Is(err, services.ErrColorGenerationFailed):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.ServiceUnavailable(c, "User database unavailable")
	}
}
