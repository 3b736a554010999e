package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"proudshop/models"
	"proudshop/services"
	"proudshop/store"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

func pageAndLimit(c *gin.Context) (int, int) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func queryBool(c *gin.Context, name string) *bool {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	b := v == "1" || v == "true" || v == "yes"
	return &b
}

func queryDecimal(c *gin.Context, name string) *decimal.Decimal {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

func (pc *ProductController) List(c *gin.Context) {
	page, limit := pageAndLimit(c)
	f := store.ProductFilter{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("search"),
		Category: queryInt(c, "category", 0),
		Sort:     c.Query("sort"),
		Featured: queryBool(c, "featured"),
		Offers:   queryBool(c, "offers"),
	}

	products, total, err := pc.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// Search is the storefront search with its own envelope shape; the admin
// list above keeps a different one, the frontends depend on both.
func (pc *ProductController) Search(c *gin.Context) {
	page, limit := pageAndLimit(c)
	f := store.SearchFilter{
		Query:    c.Query("q"),
		Category: queryInt(c, "category", 0),
		MinPrice: queryDecimal(c, "minPrice"),
		MaxPrice: queryDecimal(c, "maxPrice"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}

	products, total, err := pc.catalog.SearchProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": gin.H{
			"current": page,
			"total":   pages,
			"count":   total,
			"hasNext": page < pages,
			"hasPrev": page > 1,
		},
		"filters": gin.H{
			"query":    c.Query("q"),
			"category": c.Query("category"),
			"minPrice": c.Query("minPrice"),
			"maxPrice": c.Query("maxPrice"),
			"sort":     c.Query("sort"),
		},
	})
}

func (pc *ProductController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	product, err := pc.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) Create(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := pc.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := pc.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	if err := pc.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
