package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// entryIDParam parses the :id path segment. A malformed id cannot name an
// owned entry, so callers answer 404.
func entryIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
