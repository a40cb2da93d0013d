package user

import "linkup/internal/domain/user"

// UpdateProfileInput carries the allowlisted fields of an update request as
// decoded from JSON: nil means absent or null.
type UpdateProfileInput struct {
	Name           *string
	Username       *string
	Headline       *string
	About          *string
	Location       *string
	ProfilePicture *string
	BannerImg      *string
	Skills         []string
	Experience     []user.Experience
	Education      []user.Education
}

// Patch keeps only the fields that count as provided. Strings must be
// non-empty, so an empty string never clears a field. Lists must be non-null;
// an empty list is provided and clears the stored list.
func (in UpdateProfileInput) Patch() user.ProfilePatch {
	var p user.ProfilePatch

	p.Name = nonEmpty(in.Name)
	p.Username = nonEmpty(in.Username)
	p.Headline = nonEmpty(in.Headline)
	p.About = nonEmpty(in.About)
	p.Location = nonEmpty(in.Location)
	p.ProfilePicture = nonEmpty(in.ProfilePicture)
	p.BannerImg = nonEmpty(in.BannerImg)

	if in.Skills != nil {
		skills := append([]string{}, in.Skills...)
		p.Skills = &skills
	}
	if in.Experience != nil {
		exp := append([]user.Experience{}, in.Experience...)
		p.Experience = &exp
	}
	if in.Education != nil {
		edu := append([]user.Education{}, in.Education...)
		p.Education = &edu
	}
	return p
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
