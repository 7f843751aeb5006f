package chat

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	domain "pulse-agent-service/internal/domain/session"
	xerrors "pulse-agent-service/internal/pkg/errors"
	"pulse-agent-service/internal/pkg/ratelimit"
	"pulse-agent-service/internal/pkg/response"
	service "pulse-agent-service/internal/service/chat"

	"github.com/gin-gonic/gin"
)

const fileTypeMessage = "Only CSV, PDF, and TXT files are allowed."

// maxAttachmentSize caps how much attachment data is inlined into a turn.
const maxAttachmentSize = 5 << 20

var allowedExtensions = map[string]bool{
	".csv": true,
	".pdf": true,
	".txt": true,
}

type ChatHandler struct {
	chatService *service.Service
	// limiter is nil when rate limiting is not configured.
	limiter *ratelimit.Limiter
}

func NewChatHandler(chatService *service.Service, limiter *ratelimit.Limiter) *ChatHandler {
	return &ChatHandler{chatService: chatService, limiter: limiter}
}

// Chat runs one conversation turn. The body is either JSON (with an optional
// base64 attachment) or a multipart form with a file field; both converge on
// the same composed message before the orchestrator runs.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	if h.limiter != nil {
		allowed, _, err := h.limiter.AllowChat(c.Request.Context(), userID)
		if err == nil && !allowed {
			response.Error(c, http.StatusTooManyRequests, "too many chat requests, slow down", xerrors.ErrRateLimited)
			return
		}
	}

	message, err := h.composeMessage(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.chatService.Chat(c.Request.Context(), userID, c.Param("session_id"), message)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// composeMessage negotiates the body format and returns the message with any
// attachment text appended.
func (h *ChatHandler) composeMessage(c *gin.Context) (string, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.composeFromMultipart(c)
	}
	return h.composeFromJSON(c)
}

func (h *ChatHandler) composeFromJSON(c *gin.Context) (string, error) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", xerrors.Wrap(xerrors.ErrValidation, "invalid request body")
	}
	if req.FileContent == "" {
		return req.Message, nil
	}

	if err := validateFileName(req.FileName, req.FileType); err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return "", xerrors.Wrap(xerrors.ErrValidation, "file_content is not valid base64")
	}
	return appendAttachment(req.Message, req.FileName, data), nil
}

func (h *ChatHandler) composeFromMultipart(c *gin.Context) (string, error) {
	message := c.PostForm("message")
	if message == "" {
		return "", xerrors.Wrap(xerrors.ErrValidation, "message field is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		// No attachment is fine.
		return message, nil
	}
	if err := validateFileName(fileHeader.Filename, fileHeader.Header.Get("Content-Type")); err != nil {
		return "", err
	}
	if fileHeader.Size > maxAttachmentSize {
		return "", xerrors.Wrap(xerrors.ErrValidation, "attached file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", xerrors.Wrap(xerrors.ErrInternal, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
	if err != nil {
		return "", xerrors.Wrap(xerrors.ErrInternal, "failed to read uploaded file")
	}
	return appendAttachment(message, fileHeader.Filename, data), nil
}

var allowedContentTypes = map[string]bool{
	"text/csv":        true,
	"application/pdf": true,
	"text/plain":      true,
}

// validateFileName enforces the CSV/PDF/TXT whitelist, by extension first and
// by declared content type when the name has no extension.
func validateFileName(name, contentType string) error {
	if name == "" {
		return xerrors.Wrap(xerrors.ErrValidation, "file_name is required when a file is attached")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if allowedExtensions[ext] {
		return nil
	}
	if ext == "" && allowedContentTypes[contentType] {
		return nil
	}
	return xerrors.Wrap(xerrors.ErrValidation, fileTypeMessage)
}

// appendAttachment inlines text attachments into the message. Binary PDF
// content is referenced by name only.
func appendAttachment(message, name string, data []byte) string {
	if strings.ToLower(filepath.Ext(name)) == ".pdf" {
		return fmt.Sprintf("%s\n\n[Attached file: %s (PDF, %d bytes)]", message, name, len(data))
	}
	return fmt.Sprintf("%s\n\n[Attached file: %s]\n%s", message, name, string(data))
}
