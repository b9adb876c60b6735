package request

import "lovemap/internal/core/domain"

type SignUpRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

func (l *LocationRequest) ToDomain() *domain.Location {
	if l == nil {
		return nil
	}

	return domain.LocationFrom(l.Latitude, l.Longitude)
}

type TodoRequest struct {
	Title    string           `json:"title" validate:"required,max=255"`
	Location *LocationRequest `json:"location,omitempty"`
}

type TodoSaveRequest struct {
	Title    string           `json:"title" validate:"required,max=255"`
	Done     bool             `json:"done"`
	Location *LocationRequest `json:"location,omitempty"`
}

type TodoDoneRequest struct {
	Done *bool `json:"done" validate:"required"`
}

type TodoLocationRequest struct {
	Location *LocationRequest `json:"location"`
}

type PostRequest struct {
	Title     string           `json:"title" validate:"required,max=255"`
	Content   string           `json:"content" validate:"required"`
	ImageURI  *string          `json:"image_uri,omitempty" validate:"omitempty,max=2048"`
	Location  *LocationRequest `json:"location,omitempty"`
	Timestamp int64            `json:"timestamp,omitempty" validate:"min=0"`
}

func (p *PostRequest) ToDomain() domain.Post {
	return domain.Post{
		Title:     p.Title,
		Content:   p.Content,
		ImageURI:  p.ImageURI,
		Location:  p.Location.ToDomain(),
		Timestamp: p.Timestamp,
	}
}

type ProfileRequest struct {
	Nickname string  `json:"nickname" validate:"max=100"`
	ImageURI *string `json:"image_uri,omitempty" validate:"omitempty,max=2048"`
}

type NicknameRequest struct {
	Nickname string `json:"nickname" validate:"max=100"`
}

type ImageRequest struct {
	ImageURI string `json:"image_uri" validate:"required,max=2048"`
}
