// Package mcp exposes the todo, post and profile stores as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
)

type Server struct {
	mcp     *server.MCPServer
	todos   port.TodoService
	posts   port.PostService
	profile port.ProfileService
}

func New(todos port.TodoService, posts port.PostService, profile port.ProfileService, version string) *Server {
	s := &Server{todos: todos, posts: posts, profile: profile}

	s.mcp = server.NewMCPServer(
		"LoveMap",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcpgo.NewTool("list_todos",
		mcpgo.WithDescription("List every todo in creation order, with done flag and location."),
	), s.listTodos)

	s.mcp.AddTool(mcpgo.NewTool("add_todo",
		mcpgo.WithDescription("Add a todo. Without coordinates the configured default location is attached."),
		mcpgo.WithString("title", mcpgo.Required(), mcpgo.Description("Todo title")),
		mcpgo.WithNumber("latitude", mcpgo.Description("Latitude in degrees, -90..90")),
		mcpgo.WithNumber("longitude", mcpgo.Description("Longitude in degrees, -180..180")),
	), s.addTodo)

	s.mcp.AddTool(mcpgo.NewTool("set_todo_done",
		mcpgo.WithDescription("Mark a todo done or not done."),
		mcpgo.WithString("id", mcpgo.Required(), mcpgo.Description("Todo id")),
		mcpgo.WithBoolean("done", mcpgo.Required(), mcpgo.Description("New done state")),
	), s.setTodoDone)

	s.mcp.AddTool(mcpgo.NewTool("delete_todo",
		mcpgo.WithDescription("Delete a todo by id."),
		mcpgo.WithString("id", mcpgo.Required(), mcpgo.Description("Todo id")),
	), s.deleteTodo)

	s.mcp.AddTool(mcpgo.NewTool("list_posts",
		mcpgo.WithDescription("List posts newest first. Pass limit or cursor to page through them."),
		mcpgo.WithNumber("limit", mcpgo.Description("Page size, default 10, max 100")),
		mcpgo.WithString("cursor", mcpgo.Description("next_cursor from a previous page")),
	), s.listPosts)

	s.mcp.AddTool(mcpgo.NewTool("read_post",
		mcpgo.WithDescription("Read a single post by id."),
		mcpgo.WithNumber("id", mcpgo.Required(), mcpgo.Description("Post id")),
	), s.readPost)

	s.mcp.AddTool(mcpgo.NewTool("get_profile",
		mcpgo.WithDescription("Read the profile nickname and image."),
	), s.getProfile)

	return s
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTodos(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	todos, err := s.todos.List(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(response.NewTodoListResponse(todos))
}

func (s *Server) addTodo(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	location, err := optionalLocation(req)
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	todo, err := s.todos.Create(ctx, title, location)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(response.NewTodoResponse(todo))
}

func (s *Server) setTodoDone(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	done, err := req.RequireBool("done")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	todo, err := s.todos.SetDone(ctx, id, done)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(response.NewTodoResponse(todo))
}

func (s *Server) deleteTodo(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcpgo.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := req.GetArguments()
	_, hasLimit := args["limit"]
	_, hasCursor := args["cursor"]

	if !hasLimit && !hasCursor {
		posts, err := s.posts.List(ctx)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(response.NewPostListResponse(posts))
	}

	page, err := s.posts.ListPage(ctx, req.GetInt("limit", 0), req.GetString("cursor", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(page)
}

func (s *Server) readPost(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	if id <= 0 || id != math.Trunc(id) || id >= math.MaxInt64 {
		return mcpgo.NewToolResultError("id must be a positive whole number"), nil
	}

	post, err := s.posts.Get(ctx, int64(id))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(response.NewPostResponse(post))
}

func (s *Server) getProfile(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	profile, err := s.profile.Get(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(response.NewProfileResponse(profile, ""))
}

// optionalLocation needs both coordinates or neither.
func optionalLocation(req mcpgo.CallToolRequest) (*domain.Location, error) {
	args := req.GetArguments()
	_, hasLat := args["latitude"]
	_, hasLng := args["longitude"]

	switch {
	case !hasLat && !hasLng:
		return nil, nil
	case hasLat != hasLng:
		return nil, errors.New("latitude and longitude must be given together")
	}

	lat, err := req.RequireFloat("latitude")
	if err != nil {
		return nil, err
	}

	lng, err := req.RequireFloat("longitude")
	if err != nil {
		return nil, err
	}

	return &domain.Location{Latitude: lat, Longitude: lng}, nil
}

func toolError(err error) *mcpgo.CallToolResult {
	if errors.Is(err, domain.ErrNotFound) {
		return mcpgo.NewToolResultError("not found")
	}
	return mcpgo.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcpgo.NewToolResultText(string(out)), nil
}
