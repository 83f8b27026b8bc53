package controllers_test

import (
	"net/http"
	"testing"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecipe(t *testing.T, env *testEnv, token, title string) models.Recipe {
	t.Helper()
	res := env.do(http.MethodPost, "/recipes", token, gin.H{
		"title":       title,
		"category":    "dessert",
		"servings":    6,
		"ingredients": []string{"2 cups grated ube", "1 can condensed milk"},
		"steps":       []string{"Simmer", "Stir until thick"},
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	return decode[models.Recipe](t, res)
}

func TestRecipeManagement(t *testing.T) {
	env := setup(t)
	_, sellerToken := env.user(models.RoleSeller, "seller@example.com")
	_, otherSellerToken := env.user(models.RoleSeller, "other@example.com")
	_, buyerToken := env.user(models.RoleBuyer, "buyer@example.com")

	res := env.do(http.MethodPost, "/recipes", buyerToken, gin.H{"title": "Leche Flan"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = env.do(http.MethodPost, "/recipes", sellerToken, gin.H{"title": "Leche Flan", "category": "dessert"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	recipe := createRecipe(t, env, sellerToken, "Ube Halaya")
	assert.JSONEq(t, `["Simmer","Stir until thick"]`, string(recipe.Steps))

	res = env.do(http.MethodGet, "/recipes?search=Halaya", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"total":1`)

	update := gin.H{"title": "Ube Jam", "category": "dessert", "ingredients": []string{"ube"}, "steps": []string{"cook"}}
	res = env.do(http.MethodPut, path("/recipes/%d", recipe.ID), otherSellerToken, update)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = env.do(http.MethodPut, path("/recipes/%d", recipe.ID), sellerToken, update)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = env.do(http.MethodGet, path("/recipes/%d", recipe.ID), "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Ube Jam", decode[models.Recipe](t, res).Title)

	res = env.do(http.MethodDelete, path("/recipes/%d", recipe.ID), sellerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path("/recipes/%d", recipe.ID), "", nil).Code)
}

func TestFavoriteToggle(t *testing.T) {
	env := setup(t)
	_, sellerToken := env.user(models.RoleSeller, "seller@example.com")
	_, buyerToken := env.user(models.RoleBuyer, "buyer@example.com")
	recipe := createRecipe(t, env, sellerToken, "Bibingka")

	type toggle struct {
		Favorited bool `json:"favorited"`
	}

	res := env.do(http.MethodPost, path("/recipes/%d/favorite", recipe.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.True(t, decode[toggle](t, res).Favorited)

	res = env.do(http.MethodGet, "/recipes/favorites", buyerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	favorites := decode[struct {
		Favorites []models.FavoriteRecipe `json:"favorites"`
	}](t, res).Favorites
	require.Len(t, favorites, 1)
	assert.Equal(t, "Bibingka", favorites[0].Recipe.Title)

	res = env.do(http.MethodPost, path("/recipes/%d/favorite", recipe.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.False(t, decode[toggle](t, res).Favorited)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/recipes/999/favorite", buyerToken, nil).Code)
}

func TestSavedRecipes(t *testing.T) {
	env := setup(t)
	_, sellerToken := env.user(models.RoleSeller, "seller@example.com")
	_, buyerToken := env.user(models.RoleBuyer, "buyer@example.com")
	recipe := createRecipe(t, env, sellerToken, "Puto")

	type savedResponse struct {
		Saved models.SavedRecipe `json:"saved"`
	}

	res := env.do(http.MethodPut, path("/recipes/%d/saved", recipe.ID), buyerToken, gin.H{"notes": "less sugar"})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	first := decode[savedResponse](t, res).Saved
	assert.Equal(t, "less sugar", first.Notes)

	res = env.do(http.MethodPut, path("/recipes/%d/saved", recipe.ID), buyerToken, gin.H{"notes": "double batch"})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	second := decode[savedResponse](t, res).Saved
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "double batch", second.Notes)

	res = env.do(http.MethodGet, "/recipes/saved", buyerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	saved := decode[struct {
		Saved []models.SavedRecipe `json:"saved"`
	}](t, res).Saved
	require.Len(t, saved, 1)
	assert.Equal(t, "Puto", saved[0].Recipe.Title)

	res = env.do(http.MethodDelete, path("/recipes/%d/saved", recipe.ID), buyerToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	res = env.do(http.MethodDelete, path("/recipes/%d/saved", recipe.ID), buyerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
