package graphql

import (
	"net/http"

	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Handler serves GraphQL queries over HTTP POST.
type Handler struct {
	schema graphql.Schema
	log    *logger.Logger
}

func NewHandler(schema graphql.Schema, log *logger.Logger) *Handler {
	return &Handler{schema: schema, log: log}
}

type queryRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve 执行 GraphQL 查询。错误按 GraphQL 约定放在响应体内，HTTP 始终 200。
func (h *Handler) Serve(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})

	if len(result.Errors) > 0 {
		h.log.Warn("graphql query returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("error_count", len(result.Errors)))
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes 注册 GraphQL 路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/graphql", h.Serve)
}
