package api

import (
	"net/http"

	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/status"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// writeError maps domain errors through their gRPC code to an HTTP status.
// Anything else is an internal failure whose cause stays in the logs.
func writeError(c *gin.Context, err error) {
	if st, ok := status.FromError(err); ok {
		c.AbortWithStatusJSON(runtime.HTTPStatusFromCode(st.Code()), errorResponse{Error: st.Message()})
		return
	}
	log.Error(c.Request.Context(), "request failed", log.Err(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}
