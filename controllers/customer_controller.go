package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"proudshop/models"
	"proudshop/services"
)

type CustomerController struct {
	customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

func (cc *CustomerController) List(c *gin.Context) {
	customers, err := cc.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) Create(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	customer, err := cc.customers.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) List(c *gin.Context) {
	var customerID *int
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	items, err := cc.carts.List(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (cc *CartController) Add(c *gin.Context) {
	var in models.CartItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	var customerID *int
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	item, err := cc.carts.Add(c.Request.Context(), customerID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (cc *CartController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid cart item ID")
		return
	}

	if err := cc.carts.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
