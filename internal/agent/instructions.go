package agent

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

const defaultInstruction = `You are the Performance Management Assistant.
Your goal is to help users manage their goals, users, and departments.
Use the available tools to look up and modify data in the performance
management system, and answer in clear, concise language.`

// LoadInstructions reads the agent's system instruction from path. A missing
// or unreadable file falls back to the built-in default.
func LoadInstructions(path string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return defaultInstruction
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("could not load agent instructions, using default",
			zap.String("path", path),
			zap.Error(err))
		return defaultInstruction
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return defaultInstruction
	}
	return text
}
