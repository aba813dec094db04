package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/api"
	"github.com/platewise/recipe-catalog/backend/internal/models"
	"github.com/platewise/recipe-catalog/backend/internal/router"
	"github.com/platewise/recipe-catalog/backend/internal/service"
	"github.com/platewise/recipe-catalog/backend/internal/testhelpers/mocks"
)

type testEnv struct {
	engine   *gin.Engine
	store    *mocks.RecipeStore
	cache    *mocks.Cache
	images   *mocks.ImageStore
	category models.Category
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewRecipeStore()
	cacheStore := mocks.NewCache()
	images := mocks.NewImageStore()

	category := models.Category{ID: primitive.NewObjectID(), Name: "Street Food"}
	store.AddCategory(category)

	listingService := service.NewListingService(store, cacheStore)
	recipeService := service.NewRecipeService(store, images, listingService)

	recipeHandler := api.NewRecipeHandler(recipeService, listingService)
	catalogHandler := api.NewCatalogHandler(
		service.NewCategoryService(mocks.NewCategoryStore(category)),
		service.NewRegionService(mocks.NewRegionStore()),
	)

	return &testEnv{
		engine:   router.SetupRouter(recipeHandler, catalogHandler, nil),
		store:    store,
		cache:    cacheStore,
		images:   images,
		category: category,
	}
}

func (e *testEnv) seed(n int) {
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		e.store.Seed(models.Recipe{
			Name:        fmt.Sprintf("Recipe %d", i),
			Ingredients: []string{"salt"},
			Steps:       []string{"cook"},
			CategoryID:  e.category.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func (e *testEnv) do(method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// multipartRecipe builds a create/update form; empty values are omitted.
func multipartRecipe(t *testing.T, fields map[string]string, lists map[string][]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, values := range lists {
		for _, value := range values {
			require.NoError(t, mw.WriteField(name, value))
		}
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "dish.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestListRecipesPagination(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(25)

	w := env.do(http.MethodGet, "/v1/api/recipes?page=1&limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Equal(t, float64(25), body["total_items"])

	data := body["data"].([]interface{})
	require.Len(t, data, 10)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Recipe 25", first["name"])
}

func TestListRecipesPagePastEnd(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(25)

	w := env.do(http.MethodGet, "/v1/api/recipes?page=4&limit=10", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "page not found", decodeBody(t, w)["error"])
}

func TestListRecipesEmptyCatalog(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/v1/api/recipes", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesRejectsBadParams(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(5)

	for _, target := range []string{
		"/v1/api/recipes?page=abc",
		"/v1/api/recipes?limit=abc",
		"/v1/api/recipes?limit=0",
	} {
		w := env.do(http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestLatestRecipes(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(8)

	w := env.do(http.MethodGet, "/v1/api/recipes/latest?limit=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "Recipe 8", data[0].(map[string]interface{})["name"])
}

func TestSearchRecipesNoMatch(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(5)

	w := env.do(http.MethodGet, "/v1/api/recipes/search?name=xyz-no-match", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["message"], "no recipes matched")
	assert.Empty(t, body["data"])
}

func TestSearchRecipesRequiresName(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/v1/api/recipes/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipesByCategoryUnknownIsInformational(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(5)

	target := "/v1/api/recipes/filter?CategoryId=" + primitive.NewObjectID().Hex()
	w := env.do(http.MethodGet, target, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "no recipes in this category", body["message"])
}

func TestRecipesByCategory(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(4)

	target := "/v1/api/recipes/filter?CategoryId=" + env.category.ID.Hex()
	w := env.do(http.MethodGet, target, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 4)
}

func TestGetRecipeNotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/v1/api/recipes/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeRejectsMalformedID(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/v1/api/recipes/not-an-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	env := setupTestRouter(t)

	body, contentType := multipartRecipe(t, map[string]string{
		"name":        "Pierogi",
		"description": "dumplings",
		"category":    env.category.ID.Hex(),
	}, map[string][]string{
		"ingredients": {"flour", "potato"},
		"steps":       {"knead", "boil"},
	}, true)

	w := env.do(http.MethodPost, "/v1/api/recipes", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(t, w)
	assert.Contains(t, resp["message"], "Pierogi")

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "https://images.test/recipe-images/img-1.png", data["image_url"])
	assert.Equal(t, 1, env.store.Len())
}

func TestCreateRecipeRequiresImage(t *testing.T) {
	env := setupTestRouter(t)

	body, contentType := multipartRecipe(t, map[string]string{
		"name":     "No Picture",
		"category": env.category.ID.Hex(),
	}, map[string][]string{
		"ingredients": {"salt"},
		"steps":       {"cook"},
	}, false)

	w := env.do(http.MethodPost, "/v1/api/recipes", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestCreateRecipeValidation(t *testing.T) {
	env := setupTestRouter(t)

	// Missing name, empty lists, bad category id.
	body, contentType := multipartRecipe(t, map[string]string{
		"category": "not-hex",
	}, nil, true)

	w := env.do(http.MethodPost, "/v1/api/recipes", body, contentType)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "validation failed", resp["error"])
	details := resp["details"].([]interface{})
	assert.GreaterOrEqual(t, len(details), 3)
}

func TestUpdateRecipeRename(t *testing.T) {
	env := setupTestRouter(t)

	created, contentType := multipartRecipe(t, map[string]string{
		"name":     "Old Name",
		"category": env.category.ID.Hex(),
	}, map[string][]string{
		"ingredients": {"salt"},
		"steps":       {"cook"},
	}, true)
	w := env.do(http.MethodPost, "/v1/api/recipes", created, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["data"].(map[string]interface{})["id"].(string)

	update, contentType := multipartRecipe(t, map[string]string{"name": "New Name"}, nil, false)
	w = env.do(http.MethodPut, "/v1/api/recipes/"+id, update, contentType)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "New Name")
}

func TestUpdateRecipeNotFound(t *testing.T) {
	env := setupTestRouter(t)

	update, contentType := multipartRecipe(t, map[string]string{"name": "Ghost"}, nil, false)
	w := env.do(http.MethodPut, "/v1/api/recipes/"+primitive.NewObjectID().Hex(), update, contentType)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	env := setupTestRouter(t)

	created, contentType := multipartRecipe(t, map[string]string{
		"name":     "Short Lived",
		"category": env.category.ID.Hex(),
	}, map[string][]string{
		"ingredients": {"salt"},
		"steps":       {"cook"},
	}, true)
	w := env.do(http.MethodPost, "/v1/api/recipes", created, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["data"].(map[string]interface{})["id"].(string)

	w = env.do(http.MethodDelete, "/v1/api/recipes/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "Short Lived")
	assert.Equal(t, 0, env.store.Len())
	assert.Len(t, env.images.Deleted, 1)
}

func TestDeleteRecipeNotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodDelete, "/v1/api/recipes/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
