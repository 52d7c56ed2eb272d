package http

import (
	"context"
	"net/http"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders      *usecase.Orders
	orderStatus *usecase.OrderStatus
	orderItems  *usecase.OrderItems
	repos       usecase.Repos
	cache       usecase.OrderCache
}

func NewOrderHandler(orders *usecase.Orders, orderStatus *usecase.OrderStatus, orderItems *usecase.OrderItems, repos usecase.Repos, cache usecase.OrderCache) *OrderHandler {
	return &OrderHandler{
		orders:      orders,
		orderStatus: orderStatus,
		orderItems:  orderItems,
		repos:       repos,
		cache:       cache,
	}
}

type createOrderReq struct {
	UserID string `json:"userId" binding:"required"`
}

type changeOrderStatusReq struct {
	Status string `json:"status" binding:"required"`
}

type placeOrderItemReq struct {
	ProductID  string `json:"productId" binding:"required"`
	TotalPrice string `json:"totalPrice" binding:"required"`
}

type updateItemStatusReq struct {
	Status          string  `json:"status" binding:"required"`
	CancelReason    *string `json:"cancelReason"`
	ResponsibleUser *string `json:"responsibleUser"`
}

type confirmDeliveryReq struct {
	Code string `json:"code" binding:"required,len=4"`
}

type orderItemResp struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	ProductID    string  `json:"productId"`
	Status       string  `json:"status"`
	TotalPrice   string  `json:"totalPrice"`
	CancelReason *string `json:"cancelReason"`
}

func itemResp(li *domain.OrderLineItem) orderItemResp {
	return orderItemResp{
		ID:           li.ID,
		OrderID:      li.OrderID,
		ProductID:    li.ProductID,
		Status:       string(li.StatusID),
		TotalPrice:   li.TotalPrice.String(),
		CancelReason: li.CancelReason,
	}
}

// CreateOrder handles POST /v1/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.orders.Create(ctx, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     order.ID,
		"userId": order.UserID,
		"status": string(order.StatusID),
	})
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.repos.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := string(order.StatusID)
	if h.cache != nil {
		if cached, err := h.cache.GetStatus(ctx, order.ID); err == nil && cached != "" {
			status = cached
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         order.ID,
		"userId":     order.UserID,
		"status":     status,
		"totalPrice": order.TotalPrice.String(),
		"isCanceled": order.IsCanceled,
		"isActive":   order.IsActive,
	})
}

// ChangeStatus handles PATCH /v1/orders/:id/status.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req changeOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.orderStatus.Change(ctx, c.Param("id"), domain.OrderStatus(req.Status)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

// PlaceItem handles POST /v1/orders/:id/items.
func (h *OrderHandler) PlaceItem(c *gin.Context) {
	var req placeOrderItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	total, err := decimal.NewFromString(req.TotalPrice)
	if err != nil || total.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid totalPrice"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	li, err := h.orderItems.Place(ctx, usecase.PlaceOrderItemInput{
		OrderID:        c.Param("id"),
		ProductID:      req.ProductID,
		TotalPrice:     total,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, itemResp(li))
}

// UpdateItemStatus handles PATCH /v1/order-items/:id/status.
func (h *OrderHandler) UpdateItemStatus(c *gin.Context) {
	var req updateItemStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	li, err := h.orderItems.UpdateStatus(ctx, usecase.UpdateOrderItemStatusInput{
		ItemID:          c.Param("id"),
		Status:          domain.OrderItemStatus(req.Status),
		CancelReason:    req.CancelReason,
		ResponsibleUser: req.ResponsibleUser,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemResp(li))
}

// RemoveItem handles DELETE /v1/order-items/:id.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.orderItems.Remove(ctx, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListItemHistory handles GET /v1/order-items/:id/history.
func (h *OrderHandler) ListItemHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.repos.History.ListByItem(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"id":              e.ID,
			"status":          string(e.StatusID),
			"responsibleUser": e.ResponsibleUser,
			"message": gin.H{
				"kk": e.MessageKK,
				"ru": e.MessageRU,
				"en": e.MessageEN,
			},
			"isPassed":     e.IsPassed,
			"cancelReason": e.CancelReason,
			"takenAt":      e.TakenAt,
			"passedAt":     e.PassedAt,
			"createdAt":    e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

// GetItemCode handles GET /v1/order-items/:id/code. The delivery service
// reads the code here and asks the customer for it at handover.
func (h *OrderHandler) GetItemCode(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	vc, err := h.repos.Codes.GetActiveByItem(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": vc.Code, "createdAt": vc.CreatedAt})
}

// ConfirmDelivery handles POST /v1/order-items/:id/confirm.
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	var req confirmDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	li, err := h.orderItems.ConfirmDelivery(ctx, c.Param("id"), req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemResp(li))
}
