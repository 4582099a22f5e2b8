package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"order_history/internal/services"
	"order_history/internal/session"
)

type OrdersHandler struct {
	orderService services.OrderService
	views        *services.ViewRegistry
	sessions     session.Store
	sessionKey   string
	currency     string
	fetchTimeout time.Duration
}

func NewOrdersHandler(
	orderService services.OrderService,
	views *services.ViewRegistry,
	sessions session.Store,
	sessionKey string,
	currency string,
	fetchTimeout time.Duration,
) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		views:        views,
		sessions:     sessions,
		sessionKey:   sessionKey,
		currency:     currency,
		fetchTimeout: fetchTimeout,
	}
}

type ordersPage struct {
	View     services.ViewSnapshot
	Currency string
}

func (h *OrdersHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", nil)
}

func (h *OrdersHandler) Page(c *gin.Context) {
	h.renderPage(c, http.StatusOK)
}

// StartFetch kicks off a background fetch and sends the browser back to the
// page, which shows the loading state until the fetch completes.
func (h *OrdersHandler) StartFetch(c *gin.Context) {
	id := visitorID(c)
	view := h.views.Get(id)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.fetchTimeout)
	done, err := view.Start(ctx, h.orderService, h.provider(id))
	if err != nil {
		cancel()
		h.renderPage(c, http.StatusConflict)
		return
	}
	go func() {
		defer cancel()
		if err := <-done; err != nil {
			log.WithError(err).WithField("visitor_id", id).Warn("orders fetch failed")
		}
	}()

	c.Redirect(http.StatusSeeOther, "/orders")
}

func (h *OrdersHandler) ClearPage(c *gin.Context) {
	if err := h.views.Get(visitorID(c)).Clear(); err != nil {
		h.renderPage(c, http.StatusConflict)
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders")
}

// Snapshot returns the visitor's view as JSON.
func (h *OrdersHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Get(visitorID(c)).Snapshot())
}

// Fetch loads orders synchronously and returns the resulting view.
func (h *OrdersHandler) Fetch(c *gin.Context) {
	id := visitorID(c)
	view := h.views.Get(id)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.fetchTimeout)
	defer cancel()

	err := view.Fetch(ctx, h.orderService, h.provider(id))
	if errors.Is(err, services.ErrFetchInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "Orders are already loading"})
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, view.Snapshot())
}

func (h *OrdersHandler) Clear(c *gin.Context) {
	view := h.views.Get(visitorID(c))
	if err := view.Clear(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Orders cannot be cleared while loading"})
		return
	}
	c.JSON(http.StatusOK, view.Snapshot())
}

func (h *OrdersHandler) provider(visitorID string) session.Provider {
	return session.NewStoredProvider(h.sessions, visitorID, h.sessionKey)
}

func (h *OrdersHandler) renderPage(c *gin.Context, status int) {
	c.HTML(status, "orders.tmpl", ordersPage{
		View:     h.views.Get(visitorID(c)).Snapshot(),
		Currency: h.currency,
	})
}
