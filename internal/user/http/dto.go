package http

import "github.com/AlibekovAA/user-api/internal/user/domain"

// userRequest carries create and update bodies. A client supplied id is ignored.
type userRequest struct {
	Name        string      `json:"name"`
	DateOfBirth domain.Date `json:"dateOfBirth"`
}

type userResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DateOfBirth domain.Date `json:"dateOfBirth"`
}

func toResponse(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		DateOfBirth: u.DateOfBirth,
	}
}

func toResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out
}
