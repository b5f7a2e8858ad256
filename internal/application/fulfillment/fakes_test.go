package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	domainfulfillment "github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// In-memory repositories backing the service tests. They deep-copy on read
// and write so unsaved mutations never leak into the store, mirroring how a
// real database behaves.

func cloneSKU(sku *inventory.SKU) *inventory.SKU {
	c := *sku
	c.Batches = make([]inventory.Batch, len(sku.Batches))
	copy(c.Batches, sku.Batches)
	return &c
}

func cloneOrder(order *sales.Order) *sales.Order {
	c := *order
	c.Items = make([]sales.OrderItem, len(order.Items))
	copy(c.Items, order.Items)
	c.FulfilledItems = make([]sales.FulfilledItem, len(order.FulfilledItems))
	copy(c.FulfilledItems, order.FulfilledItems)
	return &c
}

func cloneSheet(sheet *domainfulfillment.LoadSheet) *domainfulfillment.LoadSheet {
	c := *sheet
	c.RelatedOrders = append([]uuid.UUID(nil), sheet.RelatedOrders...)
	c.Items = make([]domainfulfillment.LoadSheetItem, len(sheet.Items))
	for i, item := range sheet.Items {
		item.Sources = append([]domainfulfillment.BatchAllocation(nil), item.Sources...)
		c.Items[i] = item
	}
	return &c
}

type fakeSKURepo struct {
	mu   sync.Mutex
	skus map[uuid.UUID]*inventory.SKU
}

func newFakeSKURepo() *fakeSKURepo {
	return &fakeSKURepo{skus: make(map[uuid.UUID]*inventory.SKU)}
}

func (r *fakeSKURepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku, ok := r.skus[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneSKU(sku), nil
}

func (r *fakeSKURepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.SKU, 0, len(ids))
	for _, id := range ids {
		if sku, ok := r.skus[id]; ok {
			result = append(result, *cloneSKU(sku))
		}
	}
	return result, nil
}

func (r *fakeSKURepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.SKU, 0, len(r.skus))
	for _, sku := range r.skus {
		result = append(result, *cloneSKU(sku))
	}
	return result, nil
}

func (r *fakeSKURepo) FindByBatch(_ context.Context, batchID uuid.UUID) (*inventory.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sku := range r.skus {
		for i := range sku.Batches {
			if sku.Batches[i].ID == batchID {
				return cloneSKU(sku), nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSKURepo) Save(_ context.Context, sku *inventory.SKU) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skus[sku.ID] = cloneSKU(sku)
	return nil
}

func (r *fakeSKURepo) SaveWithLock(ctx context.Context, sku *inventory.SKU) error {
	sku.IncrementVersion()
	return r.Save(ctx, sku)
}

func (r *fakeSKURepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.skus, id)
	return nil
}

func (r *fakeSKURepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.skus)), nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*sales.Order
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*sales.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]sales.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			result = append(result, *cloneOrder(order))
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]sales.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, *cloneOrder(order))
	}
	return result, nil
}

func (r *fakeOrderRepo) FindByStatus(_ context.Context, status sales.OrderStatus, _ shared.Filter) ([]sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]sales.Order, 0)
	for _, order := range r.orders {
		if order.Status == status {
			result = append(result, *cloneOrder(order))
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) FindByOutlet(_ context.Context, outletID uuid.UUID, _ shared.Filter) ([]sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]sales.Order, 0)
	for _, order := range r.orders {
		if order.OutletID == outletID {
			result = append(result, *cloneOrder(order))
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *sales.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(ctx context.Context, order *sales.Order) error {
	order.IncrementVersion()
	return r.Save(ctx, order)
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context, status sales.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, order := range r.orders {
		if order.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) GenerateInvoiceNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("INV-%d-%05d", time.Now().Year(), r.seq), nil
}

type fakeLoadSheetRepo struct {
	mu     sync.Mutex
	sheets map[uuid.UUID]*domainfulfillment.LoadSheet
}

func newFakeLoadSheetRepo() *fakeLoadSheetRepo {
	return &fakeLoadSheetRepo{sheets: make(map[uuid.UUID]*domainfulfillment.LoadSheet)}
}

func (r *fakeLoadSheetRepo) FindByID(_ context.Context, id uuid.UUID) (*domainfulfillment.LoadSheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet, ok := r.sheets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneSheet(sheet), nil
}

func (r *fakeLoadSheetRepo) FindAll(_ context.Context, _ shared.Filter) ([]domainfulfillment.LoadSheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domainfulfillment.LoadSheet, 0, len(r.sheets))
	for _, sheet := range r.sheets {
		result = append(result, *cloneSheet(sheet))
	}
	return result, nil
}

func (r *fakeLoadSheetRepo) FindByStatus(_ context.Context, status domainfulfillment.LoadSheetStatus, _ shared.Filter) ([]domainfulfillment.LoadSheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domainfulfillment.LoadSheet, 0)
	for _, sheet := range r.sheets {
		if sheet.Status == status {
			result = append(result, *cloneSheet(sheet))
		}
	}
	return result, nil
}

func (r *fakeLoadSheetRepo) FindByAssignee(_ context.Context, userID uuid.UUID, _ shared.Filter) ([]domainfulfillment.LoadSheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domainfulfillment.LoadSheet, 0)
	for _, sheet := range r.sheets {
		if sheet.AssignedTo == userID {
			result = append(result, *cloneSheet(sheet))
		}
	}
	return result, nil
}

func (r *fakeLoadSheetRepo) Save(_ context.Context, sheet *domainfulfillment.LoadSheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets[sheet.ID] = cloneSheet(sheet)
	return nil
}

func (r *fakeLoadSheetRepo) SaveWithLock(ctx context.Context, sheet *domainfulfillment.LoadSheet) error {
	sheet.IncrementVersion()
	return r.Save(ctx, sheet)
}

func (r *fakeLoadSheetRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sheets)), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (r *fakeUserRepo) FindByName(_ context.Context, name string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Name == name {
			c := *user
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]identity.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

var (
	_ inventory.SKURepository                = (*fakeSKURepo)(nil)
	_ sales.OrderRepository                  = (*fakeOrderRepo)(nil)
	_ domainfulfillment.LoadSheetRepository  = (*fakeLoadSheetRepo)(nil)
	_ identity.UserRepository                = (*fakeUserRepo)(nil)
	_ shared.IdempotencyStore                = (*fakeIdempotencyStore)(nil)
)
