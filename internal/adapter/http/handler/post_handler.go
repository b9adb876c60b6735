package handler

import (
	"context"
	"net/http"
	"strconv"

	. "lovemap/internal/adapter/http/helper"
	. "lovemap/internal/adapter/http/validation"
	"lovemap/internal/core/model/request"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
	"lovemap/internal/core/util"
	. "lovemap/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type PostHandler struct {
	svc port.PostService
}

func NewPostHandler(svc port.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// GetAllPosts returns the whole list newest first, or a cursor page when
// either limit or cursor is present in the query.
func (p *PostHandler) GetAllPosts(c *gin.Context) {
	ctx := c.Request.Context()

	limitParam, hasLimit := c.GetQuery("limit")
	cursor, hasCursor := c.GetQuery("cursor")

	if !hasLimit && !hasCursor {
		posts, err := p.svc.List(ctx)

		if err != nil {
			SendDomainError(c, err, "post")
			return
		}

		SendSuccess(c, http.StatusOK, response.NewPostListResponse(posts))
		return
	}

	limit := 0

	if limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)

		if err != nil {
			SendBadRequestError(c, "limit", "limit must be a number")
			return
		}

		limit = parsed
	}

	var page *response.CursorResponse

	err := SpanWrapper(ctx, "handler.post.ListPage", []attribute.KeyValue{
		attribute.Int("page.limit", limit),
		attribute.Bool("page.continued", cursor != ""),
	}, func(ctx context.Context) error {
		var err error
		page, err = p.svc.ListPage(ctx, limit, cursor)
		if err == nil {
			AddSpanEvent(trace.SpanFromContext(ctx), "page.served", []attribute.KeyValue{
				attribute.Int("page.size", page.Size),
				attribute.Bool("page.has_next", page.Pagination.HasNext),
			})
		}
		return err
	})

	if err != nil {
		SendDomainError(c, err, "cursor")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (p *PostHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := p.svc.Get(c.Request.Context(), id)

	if err != nil {
		SendDomainError(c, err, "post")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewPostResponse(post))
}

func (p *PostHandler) CreatePost(c *gin.Context) {
	params, err := util.BindJSON[request.PostRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	post, err := p.svc.Create(c.Request.Context(), params.ToDomain())

	if err != nil {
		SendDomainError(c, err, "post")
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewPostResponse(post))
}

// UpdatePost replaces title, content, image and location. The timestamp in the body is ignored.
func (p *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	params, err := util.BindJSON[request.PostRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	post := params.ToDomain()
	post.ID = id

	post, err = p.svc.Update(c.Request.Context(), post)

	if err != nil {
		SendDomainError(c, err, "post")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewPostResponse(post))
}

func (p *PostHandler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := p.svc.Delete(c.Request.Context(), id); err != nil {
		SendDomainError(c, err, "post")
		return
	}

	SendSuccess(c, http.StatusOK, nil, "Post deleted successfully")
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		SendBadRequestError(c, "id", "id must be a positive number")
		return 0, false
	}

	return id, true
}
