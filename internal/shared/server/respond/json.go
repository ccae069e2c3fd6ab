package respond

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// HTML writes a complete HTML page.
func HTML(c *gin.Context, status int, page string) {
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// Attachment marks the response as a download saved as fileName.
func Attachment(c *gin.Context, fileName string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
}

// Download writes body as an attachment.
func Download(c *gin.Context, fileName, contentType string, body []byte) {
	Attachment(c, fileName)
	c.Data(http.StatusOK, contentType, body)
}
