package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"proudshop/middlewares"
	"proudshop/models"
	"proudshop/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) Create(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", ok)
	}()

	var req models.OrderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := oc.orders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) List(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", ok)
	}()

	orders, err := oc.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetByNumber answers the storefront tracking lookup. A miss responds 200
// with an error body; storefront clients rely on that shape.
func (oc *OrderController) GetByNumber(c *gin.Context) {
	order, err := oc.orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_status", ok)
	}()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !models.IsOrderStatus(req.Status) {
		badRequest(c, "Invalid status")
		return
	}

	order, err := oc.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) Delete(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("delete", ok)
	}()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	if err := oc.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleDeadLetter logs dead-lettered order events posted back by ops tooling.
func (oc *OrderController) HandleDeadLetter(c *gin.Context) {
	var deadLetter struct {
		OrderID int    `json:"order_id"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&deadLetter); err != nil {
		badRequest(c, err.Error())
		return
	}

	log.Printf("Handling dead letter for order %d: %s", deadLetter.OrderID, deadLetter.Reason)
	c.JSON(http.StatusOK, gin.H{"message": "Dead letter processed"})
}
