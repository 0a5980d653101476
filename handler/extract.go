package handler

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
	"github.com/kyeongry/fastmatch-admin-sub002/pkg/logger"
	"github.com/kyeongry/fastmatch-admin-sub002/service"
)

// ExtractHandler accepts uploaded documents and runs AI extraction on them.
type ExtractHandler struct {
	gemini  *service.GeminiService
	storage *service.DocumentStorage
}

// NewExtractHandler wires the extraction endpoints. Storage may be nil;
// uploads are then not archived.
func NewExtractHandler(gemini *service.GeminiService, storage *service.DocumentStorage) *ExtractHandler {
	return &ExtractHandler{
		gemini:  gemini,
		storage: storage,
	}
}

var extractContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Registry extracts property, owner and encumbrance fields from an uploaded
// property register.
func (h *ExtractHandler) Registry(c *gin.Context) {
	document, contentType, ok := h.readDocument(c)
	if !ok {
		return
	}

	result, err := h.gemini.ExtractRegistry(c.Request.Context(), document, contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Party extracts identity fields from an uploaded business registration
// certificate or ID card. The "type" form field selects the document kind.
func (h *ExtractHandler) Party(c *gin.Context) {
	kind := c.PostForm("type")
	if kind != model.PartyBusiness && kind != model.PartyIndividual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be business or individual"})
		return
	}

	document, contentType, ok := h.readDocument(c)
	if !ok {
		return
	}

	result, err := h.gemini.ExtractParty(c.Request.Context(), document, contentType, kind)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// readDocument pulls the uploaded file out of the multipart form, validates
// its type and optionally archives it. On failure it writes the error
// response itself and returns ok=false.
func (h *ExtractHandler) readDocument(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return nil, "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := extractContentTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, JPG and PNG files are allowed"})
		return nil, "", false
	}

	document, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}

	if h.storage != nil {
		// Archiving is best effort; extraction still proceeds.
		_, err := h.storage.UploadDocument(c.Request.Context(), header.Filename,
			bytes.NewReader(document), int64(len(document)), contentType)
		if err != nil {
			logger.Warn(c.Request.Context(), "failed to archive document", "filename", header.Filename, "error", err)
		}
	}

	return document, contentType, true
}
