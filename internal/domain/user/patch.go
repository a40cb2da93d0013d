package user

// Updatable profile fields. Field names match the JSON keys of the update body.
const (
	FieldName           = "name"
	FieldUsername       = "username"
	FieldHeadline       = "headline"
	FieldAbout          = "about"
	FieldLocation       = "location"
	FieldProfilePicture = "profilePicture"
	FieldBannerImg      = "bannerImg"
	FieldSkills         = "skills"
	FieldExperience     = "experience"
	FieldEducation      = "education"
)

// UpdatableFields is the allowlist, in the order fields are applied.
var UpdatableFields = []string{
	FieldName,
	FieldUsername,
	FieldHeadline,
	FieldAbout,
	FieldLocation,
	FieldProfilePicture,
	FieldBannerImg,
	FieldSkills,
	FieldExperience,
	FieldEducation,
}

// ProfilePatch is a partial update. A nil field is left untouched by the store.
type ProfilePatch struct {
	Name           *string
	Username       *string
	Headline       *string
	About          *string
	Location       *string
	ProfilePicture *string
	BannerImg      *string
	Skills         *[]string
	Experience     *[]Experience
	Education      *[]Education
}

// Fields lists the set fields in allowlist order.
func (p ProfilePatch) Fields() []string {
	out := make([]string, 0, len(UpdatableFields))
	set := map[string]bool{
		FieldName:           p.Name != nil,
		FieldUsername:       p.Username != nil,
		FieldHeadline:       p.Headline != nil,
		FieldAbout:          p.About != nil,
		FieldLocation:       p.Location != nil,
		FieldProfilePicture: p.ProfilePicture != nil,
		FieldBannerImg:      p.BannerImg != nil,
		FieldSkills:         p.Skills != nil,
		FieldExperience:     p.Experience != nil,
		FieldEducation:      p.Education != nil,
	}
	for _, f := range UpdatableFields {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}
