package dto

import (
	"encoding/json"
	"testing"

	"linkup/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRequest(t *testing.T, body string) UpdateProfileRequest {
	t.Helper()
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestUpdateProfileRequest_FalsyValuesAreAbsent(t *testing.T) {
	for _, body := range []string{
		`{"headline":false}`,
		`{"headline":0}`,
		`{"headline":-0.0}`,
		`{"headline":null}`,
		`{"headline":""}`,
		`{"skills":false}`,
		`{"skills":null}`,
		`{"experience":0}`,
		`{"education":""}`,
		`{"password":"x","email":"evil@example.com"}`,
	} {
		t.Run(body, func(t *testing.T) {
			assert.Empty(t, decodeRequest(t, body).Input().Patch().Fields())
		})
	}
}

func TestUpdateProfileRequest_KeepsValidFieldsNextToFalsyOnes(t *testing.T) {
	req := decodeRequest(t, `{"name":"Alice","headline":false,"skills":0,"about":" "}`)

	require.NotNil(t, req.Name)
	assert.Equal(t, "Alice", *req.Name)
	assert.Nil(t, req.Headline)
	assert.Nil(t, req.Skills)
	assert.Equal(t, []string{user.FieldName, user.FieldAbout}, req.Input().Patch().Fields())
}

func TestUpdateProfileRequest_TruthyValues(t *testing.T) {
	req := decodeRequest(t, `{
		"location": 10115,
		"headline": true,
		"skills": [],
		"experience": [{"title":"Engineer","company":"Acme"}]
	}`)

	require.NotNil(t, req.Location)
	assert.Equal(t, "10115", *req.Location)
	require.NotNil(t, req.Headline)
	assert.Equal(t, "true", *req.Headline)
	assert.NotNil(t, req.Skills)
	assert.Empty(t, req.Skills)
	assert.Equal(t, []user.Experience{{Title: "Engineer", Company: "Acme"}}, req.Experience)
}

func TestUpdateProfileRequest_Malformed(t *testing.T) {
	for _, body := range []string{
		`{"name":`,
		`[]`,
		`null`,
		`{"name":{"first":"A"}}`,
		`{"skills":"Go"}`,
	} {
		t.Run(body, func(t *testing.T) {
			var req UpdateProfileRequest
			assert.Error(t, json.Unmarshal([]byte(body), &req))
		})
	}
}
