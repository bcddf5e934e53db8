package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/constants"
	apierrors "github.com/yukikurage/join-board/internal/errors"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/services"
)

// RequireContactAccess loads the contact named by the :id parameter from the
// current user's contact list.
func RequireContactAccess(contactService *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		contact, err := contactService.GetContact(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrContactNotFound) {
				apierrors.NotFound(c, "Contact not found")
			} else {
				apierrors.ServiceUnavailable(c, "Failed to load contact")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyContact, *contact)
		c.Next()
	}
}

// GetContact retrieves the contact loaded by RequireContactAccess
func GetContact(c *gin.Context) (models.Contact, bool) {
	v, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		return models.Contact{}, false
	}
	contact, ok := v.(models.Contact)
	return contact, ok
}
