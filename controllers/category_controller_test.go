package controllers

import (
	"errors"
	"net/http"
	"testing"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryRouter(svc *fakeCategoryService) *gin.Engine {
	ctrl := NewCategoryController(svc, newTestCache())
	r := newTestEngine()
	r.GET("/api/categories", ctrl.GetCategories)
	r.GET("/api/categories/:id", ctrl.GetCategory)
	r.POST("/api/categories", ctrl.CreateCategory)
	r.PUT("/api/categories/:id", ctrl.UpdateCategory)
	r.DELETE("/api/categories/:id", ctrl.DeleteCategory)
	return r
}

func TestGetCategories(t *testing.T) {
	svc := &fakeCategoryService{categories: []models.Category{
		{ID: "c1", Name: "Hand Tools", ImageURL: "/uploads/cat.png"},
		{ID: "c2", Name: "Screws"},
	}}
	rec := doJSON(t, newCategoryRouter(svc), http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cats := decode(t, rec)["categories"].([]interface{})
	require.Len(t, cats, 2)
	assert.Equal(t, "http://example.com/uploads/cat.png", cats[0].(map[string]interface{})["imageUrl"])
	_, hasImage := cats[1].(map[string]interface{})["imageUrl"]
	assert.False(t, hasImage)
}

func TestCreateCategory(t *testing.T) {
	t.Run("Name required", func(t *testing.T) {
		rec := doJSON(t, newCategoryRouter(&fakeCategoryService{}), http.MethodPost, "/api/categories", map[string]string{"slug": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required", decode(t, rec)["message"])
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc := &fakeCategoryService{err: errors.Join(errors.New("category \"Tools\""), services.ErrAlreadyExists)}
		rec := doJSON(t, newCategoryRouter(svc), http.MethodPost, "/api/categories", map[string]string{"name": "Tools"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Category with same name exists", decode(t, rec)["message"])
	})

	t.Run("Created", func(t *testing.T) {
		svc := &fakeCategoryService{category: &models.Category{ID: "c1", Name: "Tools", Slug: "tools"}}
		rec := doJSON(t, newCategoryRouter(svc), http.MethodPost, "/api/categories", map[string]string{"name": "Tools"})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "tools", decode(t, rec)["category"].(map[string]interface{})["slug"])
	})
}

func TestCategoryNotFound(t *testing.T) {
	router := newCategoryRouter(&fakeCategoryService{err: services.ErrNotFound})
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := doJSON(t, router, method, "/api/categories/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
	rec := doJSON(t, router, http.MethodPut, "/api/categories/missing", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
