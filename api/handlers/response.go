package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrMsgSearchFailed mirrors the admin-facing message clients of the old
// system already expect on engine failures.
const ErrMsgSearchFailed = "error executing search query; please contact an administrator"

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}
