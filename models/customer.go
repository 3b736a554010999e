package models

import "time"

type Customer struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerInput struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type CartItem struct {
	ID         int       `json:"id"`
	CustomerID *int      `json:"customer_id"`
	ProductID  int       `json:"product_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

type CartItemInput struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}
