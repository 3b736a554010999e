package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"proudshop/ai"
	"proudshop/models"
	"proudshop/scraper"
	"proudshop/services"
)

type AIController struct {
	copywriter *ai.Copywriter
	scraper    *scraper.Scraper
	catalog    *services.CatalogService
}

func NewAIController(copywriter *ai.Copywriter, sc *scraper.Scraper, catalog *services.CatalogService) *AIController {
	return &AIController{copywriter: copywriter, scraper: sc, catalog: catalog}
}

func (ac *AIController) Suggest(c *gin.Context) {
	var in ai.SuggestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	suggestion, err := ac.copywriter.Suggest(c.Request.Context(), in)
	if errors.Is(err, ai.ErrNoAPIKey) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (ac *AIController) GenerateImage(c *gin.Context) {
	var in ai.ImageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	urls, err := ac.copywriter.GenerateImages(c.Request.Context(), in)
	if errors.Is(err, ai.ErrNoAPIKey) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

type importInput struct {
	URL        string           `json:"url" binding:"required,url"`
	PriceEur   *decimal.Decimal `json:"price_eur"`
	CategoryID *int             `json:"category_id"`
}

type mediaObject struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Import scrapes a public product page and stores the result as a draft
// product for the admin to refine.
func (ac *AIController) Import(c *gin.Context) {
	var in importInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := ac.scraper.Fetch(c.Request.Context(), in.URL)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	input := models.ProductInput{
		Title:      result.Title,
		Stock:      0,
		CategoryID: in.CategoryID,
		IsDraft:    true,
		SourceURL:  &in.URL,
	}
	if result.Description != "" {
		desc := result.Description
		if len(desc) > 2000 {
			cut := 2000
			for cut > 0 && !utf8.RuneStart(desc[cut]) {
				cut--
			}
			desc = desc[:cut]
		}
		input.Description = &desc
	}
	switch {
	case in.PriceEur != nil:
		input.PriceEur = *in.PriceEur
	case result.PriceGuess != nil:
		input.PriceEur = *result.PriceGuess
	}
	if media := mediaJSON(result.Images, result.Videos); media != "" {
		input.Images = &media
	}

	product, err := ac.catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":      product.ID,
		"suggested_title": product.Title,
		"description":     product.Description,
		"tags":            []string{},
		"images":          result.Images,
		"videos":          result.Videos,
	})
}

func mediaJSON(images, videos []string) string {
	media := []mediaObject{}
	for _, u := range images {
		media = append(media, mediaObject{URL: u, Type: "image"})
	}
	for _, u := range videos {
		media = append(media, mediaObject{URL: u, Type: "video"})
	}
	if len(media) == 0 {
		return ""
	}
	b, err := json.Marshal(media)
	if err != nil {
		return ""
	}
	return string(b)
}
