package files

import (
	"net/http"

	file "filmbase/src/modules/files/services"
	"filmbase/src/utils"

	"github.com/gin-gonic/gin"
)

type FileController struct {
	Service *file.FileService
}

func NewFileController(s *file.FileService) *FileController {
	return &FileController{Service: s}
}

func (h *FileController) ServeFile(c *gin.Context) {
	data, contentType, err := h.Service.Read(c.Request.Context(), c.Param("filepath"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
