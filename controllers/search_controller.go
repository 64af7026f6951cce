package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	service SearchServiceAPI
}

func NewSearchController(s SearchServiceAPI) *SearchController {
	return &SearchController{service: s}
}

func (ctrl *SearchController) Search(c *gin.Context) {
	res, err := ctrl.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleServiceError(c, err, "Not found")
		return
	}
	for i := range res.Products {
		res.Products[i].Images = absoluteURLs(c, res.Products[i].Images)
	}
	c.JSON(http.StatusOK, res)
}
