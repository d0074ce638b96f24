package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"pdfqa/internal/app"
	"pdfqa/internal/transport/http/middleware"
	"pdfqa/internal/transport/http/response"
)

const uploadField = "pdf"

type DocumentHandler struct {
	documentService *app.DocumentService
	maxUploadBytes  int64
}

type AskRequest struct {
	DocID    string `json:"docId"`
	Question string `json:"question"`
}

type UploadResponse struct {
	Message string `json:"message"`
	DocID   string `json:"docId"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type DocumentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContentLength int       `json:"content_length"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewDocumentHandler(documentService *app.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, maxUploadBytes: maxUploadBytes}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		response.Message(c, http.StatusBadRequest, "No file uploaded.")
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		response.Message(c, http.StatusBadRequest, app.ErrFileTooLarge.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Error processing PDF", err)
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), app.UploadInput{
		Filename: header.Filename,
		File:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoFile):
			response.Message(c, http.StatusBadRequest, "No file uploaded.")
		case errors.Is(err, app.ErrFileTooLarge):
			response.Message(c, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).
				Str("request_id", middleware.RequestID(c)).
				Str("name", header.Filename).
				Msg("upload failed")
			response.Error(c, http.StatusInternalServerError, "Error processing PDF", err)
		}
		return
	}

	response.OK(c, UploadResponse{
		Message: "PDF uploaded and processed successfully",
		DocID:   doc.ID,
	})
}

func (h *DocumentHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	answer, err := h.documentService.Ask(c.Request.Context(), app.AskInput{
		DocID:    req.DocID,
		Question: req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Message(c, http.StatusBadRequest, "docId is required")
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Message(c, http.StatusNotFound, "Document not found")
		default:
			log.Error().Err(err).
				Str("request_id", middleware.RequestID(c)).
				Str("doc_id", req.DocID).
				Msg("ask failed")
			response.Error(c, http.StatusInternalServerError, "Error processing question", err)
		}
		return
	}

	response.OK(c, AskResponse{Answer: answer})
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrDocumentNotFound):
			response.Message(c, http.StatusNotFound, "Document not found")
		default:
			response.Error(c, http.StatusInternalServerError, "Error loading document", err)
		}
		return
	}

	response.OK(c, DocumentResponse{
		ID:            doc.ID,
		Name:          doc.Name,
		ContentLength: len(doc.Content),
		CreatedAt:     doc.CreatedAt,
	})
}
