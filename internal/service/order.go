package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNoActiveOrder is returned when a cart operation finds no incart order.
	ErrNoActiveOrder = errors.New("no active order")

	// ErrProductNotFound is returned when a cart mutation references an
	// unknown product.
	ErrProductNotFound = errors.New("product not found")

	// ErrItemNotFound is returned when a quantity change targets a product
	// that is not in the cart.
	ErrItemNotFound = errors.New("item not in cart")
)

// OrderService はユーザーの注文集約とカート操作のインターフェース
type OrderService interface {
	GetOrdersForUser(ctx context.Context, userID string) (*model.OrderBuckets, error)
	GetCart(ctx context.Context, userID string) (*model.OrderDetail, error)
	AddProduct(ctx context.Context, userID, productID string) (*model.OrderDetail, error)
	IncreaseQuantity(ctx context.Context, userID, productID string) (*model.OrderDetail, error)
	DecreaseQuantity(ctx context.Context, userID, productID string) (*model.OrderDetail, error)
	RemoveProduct(ctx context.Context, userID, productID string) (*model.OrderDetail, error)
	ReplaceCart(ctx context.Context, userID string, items []model.CartSeedItem) (*model.OrderDetail, error)
	Checkout(ctx context.Context, userID string) (*model.OrderDetail, error)
	CancelOrder(ctx context.Context, userID string) (*model.OrderDetail, error)
}

// orderServiceImpl は注文サービスの実装
type orderServiceImpl struct {
	db *gorm.DB
}

// NewOrderService は新しい注文サービスを作成
func NewOrderService(db *gorm.DB) OrderService {
	return &orderServiceImpl{db: db}
}

// GetOrdersForUser loads every order of the user with enriched line
// items and partitions them by lifecycle status. Data access is three
// batched queries (orders, items by order-id set, products by id set)
// followed by in-memory grouping, so the round-trip count does not grow
// with the number of orders or items.
func (s *orderServiceImpl) GetOrdersForUser(ctx context.Context, userID string) (*model.OrderBuckets, error) {
	var orders []model.Order
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	buckets := &model.OrderBuckets{
		Cancelled: []model.OrderDetail{},
		Fulfilled: []model.OrderDetail{},
		InCart:    []model.OrderDetail{},
	}

	if len(orders) == 0 {
		return buckets, nil
	}

	linesByOrder, err := s.loadOrderLines(ctx, orders)
	if err != nil {
		return nil, err
	}

	// Partition preserving fetch order within each bucket.
	for _, order := range orders {
		detail := model.OrderDetail{
			Order: order,
			Items: linesByOrder[order.ID],
		}
		if detail.Items == nil {
			detail.Items = []model.OrderLine{}
		}

		switch order.Status.Bucket() {
		case model.StatusCancelled:
			buckets.Cancelled = append(buckets.Cancelled, detail)
		case model.StatusFulfilled:
			buckets.Fulfilled = append(buckets.Fulfilled, detail)
		default:
			buckets.InCart = append(buckets.InCart, detail)
		}
	}

	return buckets, nil
}

// loadOrderLines batch-fetches the items of the given orders and their
// products, grouping enriched lines by order id.
func (s *orderServiceImpl) loadOrderLines(ctx context.Context, orders []model.Order) (map[string][]model.OrderLine, error) {
	orderIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	var items []model.OrderItem
	if err := s.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at, id").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	productsByID, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	linesByOrder := make(map[string][]model.OrderLine, len(orders))
	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			// Every item must reference an existing product; a miss here
			// means the store lost referential integrity.
			return nil, fmt.Errorf("order item %s references missing product %s", item.ID, item.ProductID)
		}
		linesByOrder[item.OrderID] = append(linesByOrder[item.OrderID], model.OrderLine{
			OrderItem: item,
			Product:   product,
		})
	}

	return linesByOrder, nil
}

// loadProducts fetches the distinct products referenced by the items.
func (s *orderServiceImpl) loadProducts(ctx context.Context, items []model.OrderItem) (map[string]model.Product, error) {
	productIDs := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	productsByID := make(map[string]model.Product, len(productIDs))
	if len(productIDs) == 0 {
		return productsByID, nil
	}

	var products []model.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	for _, product := range products {
		productsByID[product.ID] = product
	}

	return productsByID, nil
}

// GetCart returns the user's active incart order with enriched items,
// or nil when the user has no active order.
func (s *orderServiceImpl) GetCart(ctx context.Context, userID string) (*model.OrderDetail, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveOrder) {
			return nil, nil
		}
		return nil, err
	}

	return s.orderDetail(ctx, order)
}

// AddProduct puts one unit of the product into the cart, creating the
// incart order on first use. Adding a product already in the cart
// increments its quantity.
func (s *orderServiceImpl) AddProduct(ctx context.Context, userID, productID string) (*model.OrderDetail, error) {
	if err := s.ensureProductExists(ctx, productID); err != nil {
		return nil, err
	}

	order, err := s.activeOrder(ctx, userID)
	if errors.Is(err, ErrNoActiveOrder) {
		order, err = s.createOrder(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, order.ID, productID)
	switch {
	case err == nil:
		item.Quantity++
		if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}
	case errors.Is(err, ErrItemNotFound):
		if err := s.createItem(ctx, order.ID, productID, 1); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.orderDetail(ctx, order)
}

// IncreaseQuantity adds one unit to an item already in the cart.
func (s *orderServiceImpl) IncreaseQuantity(ctx context.Context, userID, productID string) (*model.OrderDetail, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, order.ID, productID)
	if err != nil {
		return nil, err
	}

	item.Quantity++
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update order item: %w", err)
	}

	return s.orderDetail(ctx, order)
}

// DecreaseQuantity removes one unit from an item in the cart, deleting
// the line when its quantity reaches zero.
func (s *orderServiceImpl) DecreaseQuantity(ctx context.Context, userID, productID string) (*model.OrderDetail, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, order.ID, productID)
	if err != nil {
		return nil, err
	}

	if item.Quantity <= 1 {
		if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to delete order item: %w", err)
		}
	} else {
		item.Quantity--
		if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}
	}

	return s.orderDetail(ctx, order)
}

// RemoveProduct deletes the product's line from the cart regardless of quantity.
func (s *orderServiceImpl) RemoveProduct(ctx context.Context, userID, productID string) (*model.OrderDetail, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, order.ID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to delete order item: %w", err)
	}

	return s.orderDetail(ctx, order)
}

// ReplaceCart merges a client-held cart into the active order after
// login: submitted quantities overwrite existing lines for the same
// product, other lines are kept.
func (s *orderServiceImpl) ReplaceCart(ctx context.Context, userID string, items []model.CartSeedItem) (*model.OrderDetail, error) {
	for _, seed := range items {
		if err := s.ensureProductExists(ctx, seed.ProductID); err != nil {
			return nil, err
		}
	}

	order, err := s.activeOrder(ctx, userID)
	if errors.Is(err, ErrNoActiveOrder) {
		order, err = s.createOrder(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	for _, seed := range items {
		item, err := s.findItem(ctx, order.ID, seed.ProductID)
		switch {
		case err == nil:
			item.Quantity = seed.Quantity
			if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
				return nil, fmt.Errorf("failed to update order item: %w", err)
			}
		case errors.Is(err, ErrItemNotFound):
			if err := s.createItem(ctx, order.ID, seed.ProductID, seed.Quantity); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	return s.orderDetail(ctx, order)
}

// Checkout marks the active order fulfilled, freezing its items.
func (s *orderServiceImpl) Checkout(ctx context.Context, userID string) (*model.OrderDetail, error) {
	return s.closeOrder(ctx, userID, model.StatusFulfilled)
}

// CancelOrder marks the active order cancelled.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, userID string) (*model.OrderDetail, error) {
	return s.closeOrder(ctx, userID, model.StatusCancelled)
}

// closeOrder transitions the active order out of the incart status.
func (s *orderServiceImpl) closeOrder(ctx context.Context, userID string, status model.OrderStatus) (*model.OrderDetail, error) {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return s.orderDetail(ctx, order)
}

// activeOrder finds the user's single incart order.
func (s *orderServiceImpl) activeOrder(ctx context.Context, userID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusInCart).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveOrder
		}
		return nil, fmt.Errorf("failed to get active order: %w", err)
	}

	return &order, nil
}

// createOrder opens a fresh incart order for the user.
func (s *orderServiceImpl) createOrder(ctx context.Context, userID string) (*model.Order, error) {
	order := &model.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: model.StatusInCart,
	}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// createItem inserts a new line into the order.
func (s *orderServiceImpl) createItem(ctx context.Context, orderID, productID string, quantity int) error {
	item := &model.OrderItem{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

// findItem locates the line for a product within an order.
func (s *orderServiceImpl) findItem(ctx context.Context, orderID, productID string) (*model.OrderItem, error) {
	var item model.OrderItem
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get order item: %w", err)
	}

	return &item, nil
}

// ensureProductExists rejects cart mutations referencing unknown products.
func (s *orderServiceImpl) ensureProductExists(ctx context.Context, productID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return nil
}

// orderDetail reloads the order and enriches its items for a response.
func (s *orderServiceImpl) orderDetail(ctx context.Context, order *model.Order) (*model.OrderDetail, error) {
	var fresh model.Order
	if err := s.db.WithContext(ctx).Where("id = ?", order.ID).First(&fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	linesByOrder, err := s.loadOrderLines(ctx, []model.Order{fresh})
	if err != nil {
		return nil, err
	}

	detail := &model.OrderDetail{
		Order: fresh,
		Items: linesByOrder[fresh.ID],
	}
	if detail.Items == nil {
		detail.Items = []model.OrderLine{}
	}

	return detail, nil
}
