package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/cart"
	"github.com/kitforge/kitshop/internal/catalog"
	"github.com/kitforge/kitshop/internal/order"
	"github.com/kitforge/kitshop/internal/payment"
)

//
// ---------- STUBS & FAKES ----------
//

// memCartStore implements cart.Store in memory for handler tests.
type memCartStore struct {
	mu     sync.Mutex
	carts  map[string]*cart.Cart
	clears int
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]*cart.Cart{}}
}

func (s *memCartStore) get(sid string) *cart.Cart {
	if c, ok := s.carts[sid]; ok {
		return c
	}
	c := cart.New()
	s.carts[sid] = c
	return c
}

func (s *memCartStore) Get(_ context.Context, sid string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sid), nil
}

func (s *memCartStore) Add(_ context.Context, sid string, it cart.Item) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sid)
	if err := c.Add(it); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *memCartStore) Remove(_ context.Context, sid, kitID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sid)
	c.Remove(kitID)
	return c, nil
}

func (s *memCartStore) UpdateQuantity(_ context.Context, sid, kitID string, qty int) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sid)
	c.UpdateQuantity(kitID, qty)
	return c, nil
}

func (s *memCartStore) Clear(_ context.Context, sid string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	delete(s.carts, sid)
	return cart.New(), nil
}

// stubKitRepo implements catalog.Repository from a fixed map.
type stubKitRepo struct {
	kits map[string]*catalog.Kit
}

func (s *stubKitRepo) GetByID(_ context.Context, id string) (*catalog.Kit, error) {
	if k, ok := s.kits[id]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, catalog.ErrNotFound
}

func (s *stubKitRepo) GetBySKU(_ context.Context, sku string) (*catalog.Kit, error) {
	for _, k := range s.kits {
		if k.SKU == sku {
			cp := *k
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *stubKitRepo) List(_ context.Context, _ catalog.Query) ([]catalog.Kit, error) {
	out := make([]catalog.Kit, 0, len(s.kits))
	for _, k := range s.kits {
		out = append(out, *k)
	}
	return out, nil
}

// stubOrderRepo implements order.Repository in memory, including the
// conditional MarkPayment the webhook path relies on.
type stubOrderRepo struct {
	mu       sync.Mutex
	orders   map[string]*order.Order
	items    map[string][]order.Item
	byNumber map[string]string
	marks    int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   map[string]*order.Order{},
		items:    map[string][]order.Item{},
		byNumber: map[string]string{},
	}
}

func (s *stubOrderRepo) Create(_ context.Context, o *order.Order, items []order.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.ID] = &cp
	s.items[o.ID] = append([]order.Item(nil), items...)
	s.byNumber[o.OrderNumber] = o.ID
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*order.Order, []order.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil, order.ErrNotFound
	}
	cp := *o
	return &cp, s.items[id], nil
}

func (s *stubOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byNumber[number]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *s.orders[id]
	return &cp, nil
}

func (s *stubOrderRepo) UpdateFulfillmentStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.FulfillmentStatus = status
	return nil
}

func (s *stubOrderRepo) MarkPayment(_ context.Context, id, status, externalPaymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.PaymentStatus != order.PaymentPending {
		return false, nil
	}
	o.PaymentStatus = status
	o.ExternalPaymentID = externalPaymentID
	s.marks++
	return true, nil
}

const testCRC = "test-crc"

type testEnv struct {
	carts   *memCartStore
	kits    *stubKitRepo
	repo    *stubOrderRepo
	orders  *order.Service
	payCfg  payment.Config
	gateway *payment.Client
}

// newTestDeps wires the real services over in-memory stubs; gatewayURL may
// point at an httptest fake.
func newTestDeps(gatewayURL string) (deps, *testEnv) {
	log := zap.NewNop()
	env := &testEnv{
		carts: newMemCartStore(),
		kits:  &stubKitRepo{kits: map[string]*catalog.Kit{}},
		repo:  newStubOrderRepo(),
	}
	env.orders = order.NewService(env.repo, log)
	env.payCfg = payment.Config{
		BaseURL:    gatewayURL,
		MerchantID: 1234,
		PosID:      1234,
		APIKey:     "key",
		CRC:        testCRC,
		Currency:   "PLN",
		Country:    "PL",
		ReturnURL:  "http://shop.test/payment/return",
		StatusURL:  "http://shop.test/payment/webhook",
	}
	env.gateway = payment.NewClient(env.payCfg, log)

	return deps{
		log:        log,
		kits:       env.kits,
		carts:      env.carts,
		orders:     env.orders,
		currency:   "PLN",
		gateway:    env.gateway,
		reconciler: payment.NewReconciler(env.orders, env.payCfg, log),
	}, env
}
