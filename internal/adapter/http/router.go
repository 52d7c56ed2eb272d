package http

import (
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/http/middleware"
	"github.com/IDLKZ/jankuier-back-sub002/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(ch *CartHandler, oh *OrderHandler, sh *StatusHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/cart", authz.Require("carts.read"), ch.GetCart)
		v1.POST("/cart/items", authz.Require("carts.write"), ch.AddItem)
		v1.PATCH("/cart/items/:id", authz.Require("carts.write"), ch.UpdateItem)
		v1.DELETE("/cart/items/:id", authz.Require("carts.write"), ch.RemoveItem)

		v1.POST("/orders", authz.Require("orders.write"), oh.CreateOrder)
		v1.GET("/orders/:id", authz.Require("orders.read"), oh.GetOrder)
		v1.PATCH("/orders/:id/status", authz.Require("orders.write"), oh.ChangeStatus)
		v1.POST("/orders/:id/items", authz.Require("orders.write"), oh.PlaceItem)

		v1.PATCH("/order-items/:id/status", authz.Require("orders.write"), oh.UpdateItemStatus)
		v1.DELETE("/order-items/:id", authz.Require("orders.write"), oh.RemoveItem)
		v1.GET("/order-items/:id/history", authz.Require("orders.read"), oh.ListItemHistory)
		v1.GET("/order-items/:id/code", authz.Require("orders.read"), oh.GetItemCode)
		v1.POST("/order-items/:id/confirm", authz.Require("orders.write"), oh.ConfirmDelivery)

		v1.GET("/order-statuses", authz.Require("orders.read"), sh.ListOrderStatuses)
		v1.GET("/order-item-statuses", authz.Require("orders.read"), sh.ListOrderItemStatuses)
	}

	return r
}
