package public

import (
	handlershared "github.com/profitgrid/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getProfileID(c *gin.Context) (string, bool) {
	return handlershared.GetContextProfileID(c)
}
