package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"order_history/internal/models"
	"order_history/internal/session"
)

// OrderFetcher retrieves the order listing for an identity. An empty identity
// means none could be resolved.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, identity string) ([]models.Order, error)
}

type OrderService interface {
	LoadRows(ctx context.Context, provider session.Provider) ([]models.OrderRow, error)
}

type orderService struct {
	fetcher OrderFetcher
	audit   AuditService
}

func NewOrderService(fetcher OrderFetcher, audit AuditService) OrderService {
	if audit == nil {
		audit = NopAuditService()
	}
	return &orderService{fetcher: fetcher, audit: audit}
}

// LoadRows resolves the identity, fetches its orders and flattens them into
// table rows.
func (s *orderService) LoadRows(ctx context.Context, provider session.Provider) ([]models.OrderRow, error) {
	start := time.Now()
	identity, _ := provider.Identity(ctx)

	record := FetchRecord{Identity: identity}
	defer func() {
		record.Duration = time.Since(start)
		s.audit.Record(ctx, record)
	}()

	orders, err := s.fetcher.FetchOrders(ctx, identity)
	if err != nil {
		record.Outcome, record.Err = models.FetchFailed, err
		return nil, errors.Wrap(err, "fetching orders")
	}
	record.Orders = len(orders)

	rows, err := BuildRows(orders)
	if err != nil {
		record.Outcome, record.Err = models.FetchFailed, err
		return nil, errors.Wrap(err, "building order rows")
	}
	record.Rows = len(rows)

	record.Outcome = models.FetchEmpty
	if len(rows) > 0 {
		record.Outcome = models.FetchPopulated
	}
	log.WithFields(log.Fields{
		"orders": len(orders),
		"rows":   len(rows),
	}).Debug("orders loaded")
	return rows, nil
}

// BuildRows flattens every order and projects its items, keeping the order of
// the listing and, within an order, the flattening order.
func BuildRows(orders []models.Order) ([]models.OrderRow, error) {
	rows := make([]models.OrderRow, 0, len(orders))
	for _, order := range orders {
		items, err := order.OrderData.Flatten()
		if err != nil {
			return nil, errors.Wrapf(err, "order %q", order.ID)
		}
		for _, item := range items {
			rows = append(rows, models.NewOrderRow(order.ID, item))
		}
	}
	return rows, nil
}
