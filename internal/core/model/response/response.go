package response

import (
	"encoding/json"
	"time"

	"lovemap/internal/core/domain"
)

type UserResponse struct {
	UUID      string    `json:"uuid,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type TodoResponse struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Done     bool             `json:"done"`
	Location *domain.Location `json:"location"`
}

type PostResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	ImageURI  *string          `json:"image_uri"`
	Location  *domain.Location `json:"location"`
	Timestamp int64            `json:"timestamp"`
	CreatedAt time.Time        `json:"created_at"`
}

type ProfileResponse struct {
	Nickname string `json:"nickname"`
	ImageURI string `json:"image_uri"`
	HasImage bool   `json:"has_image"`
	Email    string `json:"email,omitempty"`
}

type CursorResponse struct {
	Size       int             `json:"size"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		HasNext    bool   `json:"has_next"`
		NextCursor string `json:"next_cursor"`
	} `json:"pagination"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:       todo.ID,
		Title:    todo.Title,
		Done:     todo.Done,
		Location: todo.Location,
	}
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return data
}

func NewPostResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURI:  post.ImageURI,
		Location:  post.Location,
		Timestamp: post.Timestamp,
		CreatedAt: post.CreatedAt().UTC(),
	}
}

func NewPostListResponse(posts []domain.Post) []PostResponse {
	data := make([]PostResponse, 0, len(posts))

	for _, post := range posts {
		data = append(data, NewPostResponse(post))
	}

	return data
}

func NewProfileResponse(profile domain.Profile, email string) ProfileResponse {
	return ProfileResponse{
		Nickname: profile.Nickname,
		ImageURI: profile.ImageURI,
		HasImage: profile.HasDisplayableImage(),
		Email:    email,
	}
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		UUID:      user.UUID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
