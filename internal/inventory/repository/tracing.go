package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingRepository decorates any InventoryRepository with OpenTelemetry
// spans
type TracingRepository struct {
	next domain.InventoryRepository
}

// NewTracingRepository creates a new tracing decorator
func NewTracingRepository(next domain.InventoryRepository) *TracingRepository {
	return &TracingRepository{next: next}
}

// Create with tracing
func (r *TracingRepository) Create(ctx context.Context, record *domain.InventoryRecord) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("inventory.product_id", record.ProductID),
			attribute.String("inventory.seller_id", record.SellerID),
			attribute.Int("inventory.total_stock", record.TotalStock),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, record)
	recordSpanError(span, err)
	return err
}

// FindByProductID with tracing
func (r *TracingRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByProductID",
		trace.WithAttributes(attribute.String("inventory.product_id", productID)),
	)
	defer span.End()

	record, err := r.next.FindByProductID(ctx, productID)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("inventory.available_stock", record.AvailableStock),
		attribute.Int("inventory.reserved_stock", record.ReservedStock),
	)
	return record, nil
}

// FindBySeller with tracing
func (r *TracingRepository) FindBySeller(ctx context.Context, sellerID string, filter domain.SellerFilter, limit, offset int) ([]domain.InventoryRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.FindBySeller",
		trace.WithAttributes(
			attribute.String("inventory.seller_id", sellerID),
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	records, err := r.next.FindBySeller(ctx, sellerID, filter, limit, offset)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(records)))
	return records, nil
}

// FindAll with tracing
func (r *TracingRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	records, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(records)))
	return records, nil
}

// Update with tracing
func (r *TracingRepository) Update(ctx context.Context, record *domain.InventoryRecord) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.String("inventory.product_id", record.ProductID),
			attribute.Int("inventory.version", record.Version),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, record)
	recordSpanError(span, err)
	return err
}

// FindProductIDsWithExpired with tracing
func (r *TracingRepository) FindProductIDsWithExpired(ctx context.Context, now time.Time) ([]string, error) {
	ctx, span := tracer.Start(ctx, "repository.FindProductIDsWithExpired")
	defer span.End()

	ids, err := r.next.FindProductIDsWithExpired(ctx, now)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(ids)))
	return ids, nil
}

// FindProductIDsWithOrder with tracing
func (r *TracingRepository) FindProductIDsWithOrder(ctx context.Context, orderID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "repository.FindProductIDsWithOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer span.End()

	ids, err := r.next.FindProductIDsWithOrder(ctx, orderID)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(ids)))
	return ids, nil
}

// SellerStats with tracing
func (r *TracingRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerStats, error) {
	ctx, span := tracer.Start(ctx, "repository.SellerStats",
		trace.WithAttributes(attribute.String("inventory.seller_id", sellerID)),
	)
	defer span.End()

	stats, err := r.next.SellerStats(ctx, sellerID)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.total_products", stats.TotalProducts))
	return stats, nil
}

func recordSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
