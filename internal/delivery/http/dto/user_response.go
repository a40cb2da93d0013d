package dto

import (
	"time"

	"linkup/internal/domain/user"
)

// ProfileResponse is the public shape of a profile. It has no password field.
type ProfileResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Username       string            `json:"username"`
	Email          string            `json:"email"`
	Headline       string            `json:"headline"`
	About          string            `json:"about"`
	Location       string            `json:"location"`
	ProfilePicture string            `json:"profilePicture"`
	BannerImg      string            `json:"bannerImg"`
	Skills         []string          `json:"skills"`
	Experience     []user.Experience `json:"experience"`
	Education      []user.Education  `json:"education"`
	Connections    []string          `json:"connections"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type SuggestionResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Headline       string `json:"headline"`
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Username:       p.Username,
		Email:          p.Email,
		Headline:       p.Headline,
		About:          p.About,
		Location:       p.Location,
		ProfilePicture: p.ProfilePicture,
		BannerImg:      p.BannerImg,
		Skills:         orEmpty(p.Skills),
		Experience:     orEmpty(p.Experience),
		Education:      orEmpty(p.Education),
		Connections:    orEmpty(p.Connections),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func NewSuggestionsResponse(items []user.Summary) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(items))
	for _, s := range items {
		out = append(out, SuggestionResponse{
			ID:             s.ID,
			Name:           s.Name,
			Username:       s.Username,
			ProfilePicture: s.ProfilePicture,
			Headline:       s.Headline,
		})
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
