package handler

import (
	"net/http"

	. "lovemap/internal/adapter/http/helper"
	. "lovemap/internal/adapter/http/validation"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/request"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
	"lovemap/internal/core/util"
	"lovemap/pkg/logger"
	. "lovemap/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *logger.LokiLogger
}

func NewTodoHandler(svc port.TodoService, log *logger.LokiLogger) *TodoHandler {
	if log == nil {
		log = logger.NewNopLogger("lovemap")
	}

	return &TodoHandler{
		svc:    svc,
		Logger: log,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	todos, err := t.svc.List(ctx)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.ErrorWithTrace(ctx, "Failed to list todos", zap.Error(err))

		SendInternalError(c, "Error getting todos")
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))

	SendSuccess(c, http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	todo, err := t.svc.Get(c.Request.Context(), c.Param("id"))

	if err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.TodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Create(ctx, params.Title, params.Location.ToDomain())

	if err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

// SaveTodo inserts or replaces the todo stored under :id.
func (t *TodoHandler) SaveTodo(c *gin.Context) {
	params, err := util.BindJSON[request.TodoSaveRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Save(c.Request.Context(), domain.Todo{
		ID:       c.Param("id"),
		Title:    params.Title,
		Done:     params.Done,
		Location: params.Location.ToDomain(),
	})

	if err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) SetDone(c *gin.Context) {
	params, err := util.BindJSON[request.TodoDoneRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.SetDone(c.Request.Context(), c.Param("id"), *params.Done)

	if err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

// Relocate moves a todo. A null location clears it.
func (t *TodoHandler) Relocate(c *gin.Context) {
	params, err := util.BindJSON[request.TodoLocationRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Relocate(c.Request.Context(), c.Param("id"), params.Location.ToDomain())

	if err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	if err := t.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		SendDomainError(c, err, "todo")
		return
	}

	SendSuccess(c, http.StatusOK, nil, "Todo deleted successfully")
}
