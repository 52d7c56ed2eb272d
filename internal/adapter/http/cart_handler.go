package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	items *usecase.CartItems
	repos usecase.Repos
	cache usecase.CartCache
}

func NewCartHandler(items *usecase.CartItems, repos usecase.Repos, cache usecase.CartCache) *CartHandler {
	return &CartHandler{items: items, repos: repos, cache: cache}
}

type addCartItemReq struct {
	UserID    string  `json:"userId" binding:"required"`
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	Qty       int     `json:"qty" binding:"required,gt=0"`
}

type updateCartItemReq struct {
	Qty       int     `json:"qty" binding:"required,gt=0"`
	VariantID *string `json:"variantId"`
}

type cartItemResp struct {
	ID         string  `json:"id"`
	CartID     string  `json:"cartId"`
	ProductID  string  `json:"productId"`
	VariantID  *string `json:"variantId"`
	Qty        int     `json:"qty"`
	UnitPrice  string  `json:"unitPrice"`
	TotalPrice string  `json:"totalPrice"`
}

// AddItem handles POST /v1/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	li, err := h.items.Add(ctx, usecase.AddCartItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Qty:       req.Qty,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cartItemResp{
		ID:         li.ID,
		CartID:     li.CartID,
		ProductID:  li.ProductID,
		VariantID:  li.VariantID,
		Qty:        li.Qty,
		UnitPrice:  li.UnitPrice.String(),
		TotalPrice: li.TotalPrice.String(),
	})
}

// UpdateItem handles PATCH /v1/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	li, err := h.items.Update(ctx, c.Param("id"), usecase.UpdateCartItemInput{
		Qty:       req.Qty,
		VariantID: req.VariantID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartItemResp{
		ID:         li.ID,
		CartID:     li.CartID,
		ProductID:  li.ProductID,
		VariantID:  li.VariantID,
		Qty:        li.Qty,
		UnitPrice:  li.UnitPrice.String(),
		TotalPrice: li.TotalPrice.String(),
	})
}

// RemoveItem handles DELETE /v1/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.items.Remove(ctx, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCart handles GET /v1/cart?userId=. The snapshot is served from Redis
// when present, falling back to the carts row.
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.repos.Carts.GetByUser(ctx, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	snapshot := cart.CartItems
	if h.cache != nil {
		if cached, err := h.cache.GetSnapshot(ctx, cart.ID); err == nil {
			snapshot = cached
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         cart.ID,
		"userId":     cart.UserID,
		"totalPrice": cart.TotalPrice.String(),
		"items":      json.RawMessage(snapshot),
	})
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, usecase.ErrInvalidQty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidVerificationCode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIllegalStatusTransition), errors.Is(err, domain.ErrUnknownStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
