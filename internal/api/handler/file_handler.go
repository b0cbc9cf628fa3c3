package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anhpls/uniflo/pkg/response"
	"github.com/anhpls/uniflo/pkg/storage"
)

// FileHandler serves stored objects against signed download URLs.
type FileHandler struct {
	store *storage.Store
}

// NewFileHandler builds a FileHandler.
func NewFileHandler(store *storage.Store) *FileHandler {
	return &FileHandler{store: store}
}

// Download streams a stored object. The token must be valid, unexpired,
// and issued for exactly the requested key.
// GET /api/v1/files/:key?token=xxx
func (h *FileHandler) Download(c *gin.Context) {
	key := c.Param("key")
	token := c.Query("token")
	if token == "" {
		response.Forbidden(c, 21001, "download token required")
		return
	}

	signedKey, err := h.store.VerifyToken(token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			response.Forbidden(c, 21002, "download link expired")
		default:
			response.Forbidden(c, 21001, "invalid download token")
		}
		return
	}
	if signedKey != key {
		response.Forbidden(c, 21001, "invalid download token")
		return
	}

	path, err := h.store.Path(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.NotFound(c, 21003, "file not found")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment")
	c.File(path)
}
