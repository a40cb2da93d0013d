package user

import "time"

// Profile is the stored user record without its password. Stores never load
// the password into a Profile, so it cannot leak through a response.
type Profile struct {
	ID             string
	Name           string
	Username       string
	Email          string
	Headline       string
	About          string
	Location       string
	ProfilePicture string
	BannerImg      string
	Skills         []string
	Experience     []Experience
	Education      []Education
	Connections    []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Experience struct {
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	StartDate   *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	School       string `json:"school" bson:"school"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty" bson:"fieldOfStudy,omitempty"`
	StartYear    int    `json:"startYear,omitempty" bson:"startYear,omitempty"`
	EndYear      int    `json:"endYear,omitempty" bson:"endYear,omitempty"`
}

// Summary is the projection returned by connection suggestions.
type Summary struct {
	ID             string
	Name           string
	Username       string
	ProfilePicture string
	Headline       string
}

func (p Profile) Summary() Summary {
	return Summary{
		ID:             p.ID,
		Name:           p.Name,
		Username:       p.Username,
		ProfilePicture: p.ProfilePicture,
		Headline:       p.Headline,
	}
}

func (p Profile) IsConnectedTo(id string) bool {
	for _, c := range p.Connections {
		if c == id {
			return true
		}
	}
	return false
}
