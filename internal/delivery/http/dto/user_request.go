package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"linkup/internal/domain/user"
	useruc "linkup/internal/usecase/user"
)

// UpdateProfileRequest is the body of PUT/PATCH /profile. Keys outside the
// allowlist are ignored. A key whose value is null, false, 0 or "" counts as
// absent, so it neither fails decoding nor clears the stored field.
type UpdateProfileRequest struct {
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

func (r *UpdateProfileRequest) UnmarshalJSON(b []byte) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(b, &body); err != nil {
		return err
	}
	if body == nil {
		return fmt.Errorf("body must be a JSON object")
	}

	var req UpdateProfileRequest
	text := []struct {
		key string
		dst **string
	}{
		{user.FieldName, &req.Name},
		{user.FieldUsername, &req.Username},
		{user.FieldHeadline, &req.Headline},
		{user.FieldAbout, &req.About},
		{user.FieldLocation, &req.Location},
		{user.FieldProfilePicture, &req.ProfilePicture},
		{user.FieldBannerImg, &req.BannerImg},
	}
	for _, f := range text {
		raw, ok := body[f.key]
		if !ok || isFalsy(raw) {
			continue
		}
		s, err := decodeText(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = &s
	}

	lists := []struct {
		key string
		dst any
	}{
		{user.FieldSkills, &req.Skills},
		{user.FieldExperience, &req.Experience},
		{user.FieldEducation, &req.Education},
	}
	for _, f := range lists {
		raw, ok := body[f.key]
		if !ok || isFalsy(raw) {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}

	*r = req
	return nil
}

// isFalsy reports whether raw is null, false, a zero number or "".
func isFalsy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "null", "false", `""`:
		return true
	}
	if len(v) > 0 && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) {
		n, err := strconv.ParseFloat(string(v), 64)
		return err == nil && n == 0
	}
	return false
}

// decodeText accepts a string, or a number or true written as its literal
// text. Objects and arrays are rejected.
func decodeText(raw json.RawMessage) (string, error) {
	v := bytes.TrimSpace(raw)
	if len(v) > 0 && v[0] == '"' {
		var s string
		err := json.Unmarshal(v, &s)
		return s, err
	}
	if len(v) > 0 && (v[0] == '{' || v[0] == '[') {
		return "", fmt.Errorf("expected a string")
	}
	return string(v), nil
}

func (r UpdateProfileRequest) Input() useruc.UpdateProfileInput {
	return useruc.UpdateProfileInput{
		Name:           r.Name,
		Username:       r.Username,
		Headline:       r.Headline,
		About:          r.About,
		Location:       r.Location,
		ProfilePicture: r.ProfilePicture,
		BannerImg:      r.BannerImg,
		Skills:         r.Skills,
		Experience:     r.Experience,
		Education:      r.Education,
	}
}
