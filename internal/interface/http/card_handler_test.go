package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/holocard-api/internal/application"
)

func createCard(t *testing.T, app *testApp, tok string) string {
	t.Helper()
	w := app.doJSON(http.MethodPut, "/api/profile", tok, application.ProfileInput{Name: "Ada", Email: "ada@example.com", Title: "CTO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Profile profileDTO `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	return data.Profile.Card.PublicID
}

func TestGetPublicCard_IsOwner(t *testing.T) {
	app := newTestApp(t)
	owner := app.seed(t, "u1", "u1@example.com")
	other := app.seed(t, "u2", "u2@example.com")
	publicID := createCard(t, app, owner)

	type cardResp struct {
		Card struct {
			PublicID string `json:"public_id"`
			User     struct {
				Name string `json:"name"`
			} `json:"user"`
			Profile struct {
				Title string `json:"title"`
			} `json:"profile"`
		} `json:"card"`
		IsOwner bool `json:"is_owner"`
	}

	for _, tc := range []struct {
		name  string
		token string
		owner bool
	}{
		{"anonymous", "", false},
		{"owner", owner, true},
		{"other user", other, false},
		{"garbage token", "garbage", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(http.MethodGet, "/api/card/"+publicID, tc.token, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			var data cardResp
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
			assert.Equal(t, publicID, data.Card.PublicID)
			assert.Equal(t, "Ada", data.Card.User.Name)
			assert.Equal(t, "CTO", data.Card.Profile.Title)
			assert.Equal(t, tc.owner, data.IsOwner)
		})
	}

	w := app.do(http.MethodGet, "/api/card/card-0-nope", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareCard(t *testing.T) {
	app := newTestApp(t)
	tok := app.seed(t, "u1", "u1@example.com")
	publicID := createCard(t, app, tok)

	w := app.do(http.MethodGet, "/api/card/"+publicID+"/share", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "https://holo.example/card/"+publicID, data["card_url"])
	assert.Equal(t, "Ada's HoloCard", data["title"])
}

func TestSearchCards(t *testing.T) {
	app := newTestApp(t)
	tok := app.seed(t, "u1", "u1@example.com")

	w := app.do(http.MethodGet, "/api/cards/search?q=ada", tok, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/cards/search", tok, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodGet, "/api/cards/search?q=ada", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
