package admin

import (
	"strings"
	"time"

	handlershared "github.com/profitgrid/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getProfileID(c *gin.Context) (string, bool) {
	return handlershared.GetContextProfileID(c)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return &parsed, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
