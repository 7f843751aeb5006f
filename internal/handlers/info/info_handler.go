// Package info serves the self-describing usage catalog of the API.
package info

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type EndpointInfo struct {
	Method       string                   `json:"method"`
	Path         string                   `json:"path"`
	Summary      string                   `json:"summary"`
	Description  string                   `json:"description"`
	RequiresAuth bool                     `json:"requires_auth"`
	Parameters   []map[string]interface{} `json:"parameters,omitempty"`
	ExampleReq   map[string]interface{}   `json:"example_request,omitempty"`
	ExampleResp  map[string]interface{}   `json:"example_response,omitempty"`
}

type UsageResponse struct {
	ServiceName        string            `json:"service_name"`
	Version            string            `json:"version"`
	BasePath           string            `json:"base_path"`
	Endpoints          []EndpointInfo    `json:"endpoints"`
	AuthenticationInfo map[string]string `json:"authentication_info"`
}

type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Usage returns the static endpoint catalog.
func (h *InfoHandler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, UsageResponse{
		ServiceName: "Pulse EPM Agent API",
		Version:     "1.0.0",
		BasePath:    "/api/v1/pulse-epm-agent",
		Endpoints: []EndpointInfo{
			{
				Method:       "GET",
				Path:         "/api/v1/pulse-epm-agent/health",
				Summary:      "Health Check",
				Description:  "Check the health status of the API service.",
				RequiresAuth: false,
				ExampleResp: map[string]interface{}{
					"status": "healthy", "service": "pulse-epm-agent", "version": "1.0.0",
				},
			},
			{
				Method:       "POST",
				Path:         "/api/v1/pulse-epm-agent/sessions",
				Summary:      "Create Session",
				Description:  "Create a new conversation session with the AI agent. The bearer token is validated and stored in session state for agent tool authentication.",
				RequiresAuth: true,
				Parameters: []map[string]interface{}{
					{"name": "Authorization", "type": "header", "required": true, "description": "Bearer token for authentication"},
					{"name": "user_id", "type": "body", "required": true, "description": "Unique identifier for the user"},
					{"name": "user_email", "type": "body", "required": false, "description": "User's email address"},
					{"name": "user_name", "type": "body", "required": false, "description": "User's display name"},
				},
				ExampleReq: map[string]interface{}{
					"user_id": "user123", "user_email": "john.doe@example.com", "user_name": "John Doe",
				},
				ExampleResp: map[string]interface{}{
					"session_id": "01J9W3N9QZ6WRXK4T1N6M3YQAB", "message": "Session created successfully",
				},
			},
			{
				Method:       "GET",
				Path:         "/api/v1/pulse-epm-agent/sessions",
				Summary:      "List All Active Sessions",
				Description:  "Get all unexpired sessions for the authenticated user. The user is identified by the token's email claim.",
				RequiresAuth: true,
				Parameters: []map[string]interface{}{
					{"name": "Authorization", "type": "header", "required": true, "description": "Bearer token containing an email claim"},
				},
			},
			{
				Method:       "GET",
				Path:         "/api/v1/pulse-epm-agent/sessions/:session_id",
				Summary:      "Get Session State",
				Description:  "Retrieve the raw state of a session including stored credential, user information and interaction history.",
				RequiresAuth: false,
				Parameters: []map[string]interface{}{
					{"name": "session_id", "type": "path", "required": true, "description": "The session ID to retrieve"},
					{"name": "user_id", "type": "query", "required": true, "description": "The user ID that owns the session"},
				},
			},
			{
				Method:       "DELETE",
				Path:         "/api/v1/pulse-epm-agent/sessions/:session_id",
				Summary:      "Delete Session",
				Description:  "Delete a session. Stores without native deletion clear the session state instead and say so in the response.",
				RequiresAuth: false,
				Parameters: []map[string]interface{}{
					{"name": "session_id", "type": "path", "required": true, "description": "The session ID to delete"},
					{"name": "user_id", "type": "query", "required": true, "description": "The user ID that owns the session"},
				},
			},
			{
				Method:       "POST",
				Path:         "/api/v1/pulse-epm-agent/chat/:session_id",
				Summary:      "Send Chat Message",
				Description:  "Send a message to the AI agent and receive a response. Accepts JSON with an optional base64 attachment or a multipart form with a CSV, PDF or TXT file.",
				RequiresAuth: false,
				Parameters: []map[string]interface{}{
					{"name": "session_id", "type": "path", "required": true, "description": "The session ID for this conversation"},
					{"name": "user_id", "type": "query", "required": true, "description": "The user ID sending the message"},
					{"name": "message", "type": "body", "required": true, "description": "The message to send to the agent"},
				},
				ExampleResp: map[string]interface{}{
					"response": "I've created the goal.", "agent_name": "pulse_performance_agent",
				},
			},
			{
				Method:       "GET",
				Path:         "/api/v1/pulse-epm-agent/ws/chat/:session_id",
				Summary:      "Chat Event Stream",
				Description:  "WebSocket endpoint streaming agent events for one chat turn as JSON frames.",
				RequiresAuth: false,
				Parameters: []map[string]interface{}{
					{"name": "session_id", "type": "path", "required": true, "description": "The session ID for this conversation"},
					{"name": "user_id", "type": "query", "required": true, "description": "The user ID sending the message"},
				},
			},
			{
				Method:       "GET",
				Path:         "/api/v1/pulse-epm-agent/usage",
				Summary:      "API Usage",
				Description:  "This endpoint. Returns the catalog of available endpoints.",
				RequiresAuth: false,
			},
		},
		AuthenticationInfo: map[string]string{
			"scheme":      "Bearer",
			"header":      "Authorization",
			"description": "Session creation and listing require a JWT bearer token. Chat turns authenticate with the token stored in the session state.",
		},
	})
}
