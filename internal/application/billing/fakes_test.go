package billing_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// In-memory fakes backing the use-case tests. One fakeStore holds all
// tables; the fake runner snapshots it before the callback and restores it
// on error, mimicking the all-or-nothing transaction contract.

type fakeStore struct {
	rates    map[string]entity.ExchangeRate
	events   map[string]entity.BillingEvent
	invoices map[string]entity.Invoice
	items    map[string]entity.InvoiceItem
	seqs     map[string]int
	services map[string]entity.Service
	clients  map[string]entity.Client
	eventSeq int64
	itemSeq  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rates:    map[string]entity.ExchangeRate{},
		events:   map[string]entity.BillingEvent{},
		invoices: map[string]entity.Invoice{},
		items:    map[string]entity.InvoiceItem{},
		seqs:     map[string]int{},
		services: map[string]entity.Service{},
		clients:  map[string]entity.Client{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.rates {
		c.rates[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	c.eventSeq = s.eventSeq
	c.itemSeq = s.itemSeq
	return c
}

type fakeTxRunner struct {
	s *fakeStore
}

func (r *fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.ExchangeRateRepository,
	repository.BillingEventRepository,
	repository.InvoiceRepository,
	repository.InvoiceSequenceRepository,
	repository.ServiceRepository,
) error) error {
	snapshot := r.s.clone()
	err := fn(
		&fakeRateRepo{s: r.s},
		&fakeEventRepo{s: r.s},
		&fakeInvoiceRepo{s: r.s},
		&fakeSeqRepo{s: r.s},
		&fakeServiceRepo{s: r.s},
	)
	if err != nil {
		*r.s = *snapshot
	}
	return err
}

// ── exchange rates ───────────────────────────────────────────────────────────

type fakeRateRepo struct{ s *fakeStore }

func (r *fakeRateRepo) Create(rate *entity.ExchangeRate) error {
	if rate.ID == "" {
		rate.ID = fmt.Sprintf("rate-%03d", len(r.s.rates)+1)
	}
	for _, existing := range r.s.rates {
		if existing.DeletedAt == nil && existing.Status == entity.RateStatusActive &&
			rate.Status == entity.RateStatusActive && existing.RateDate.Equal(rate.RateDate) {
			return domain.ErrDuplicate
		}
	}
	r.s.rates[rate.ID] = *rate
	return nil
}

func (r *fakeRateRepo) GetByID(id string) (*entity.ExchangeRate, error) {
	rate, ok := r.s.rates[id]
	if !ok || rate.DeletedAt != nil {
		return nil, nil
	}
	return &rate, nil
}

func (r *fakeRateRepo) FindApplicableForUpdate(base, quote string, onOrBefore time.Time) (*entity.ExchangeRate, error) {
	var best *entity.ExchangeRate
	for id := range r.s.rates {
		rate := r.s.rates[id]
		if rate.DeletedAt != nil || rate.Status != entity.RateStatusActive {
			continue
		}
		if rate.BaseCurrency != base || rate.QuoteCurrency != quote || rate.RateDate.After(onOrBefore) {
			continue
		}
		if best == nil || rate.RateDate.After(best.RateDate) ||
			(rate.RateDate.Equal(best.RateDate) && rate.ID > best.ID) {
			copied := rate
			best = &copied
		}
	}
	return best, nil
}

func (r *fakeRateRepo) Lock(id string) error {
	rate, ok := r.s.rates[id]
	if !ok {
		return domain.ErrNotFound
	}
	rate.Locked = true
	r.s.rates[id] = rate
	return nil
}

func (r *fakeRateRepo) Update(rate *entity.ExchangeRate) error {
	r.s.rates[rate.ID] = *rate
	return nil
}

func (r *fakeRateRepo) SoftDelete(id string) error {
	rate := r.s.rates[id]
	now := time.Now()
	rate.DeletedAt = &now
	r.s.rates[id] = rate
	return nil
}

func (r *fakeRateRepo) IsReferencedByInvoice(value decimal.Decimal) (bool, error) {
	for _, inv := range r.s.invoices {
		if inv.DeletedAt == nil && inv.FxRateTHBKRW.Equal(value) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRateRepo) List(limit, offset int) ([]*entity.ExchangeRate, error) {
	var list []*entity.ExchangeRate
	for id := range r.s.rates {
		rate := r.s.rates[id]
		if rate.DeletedAt == nil {
			list = append(list, &rate)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ── billing events ───────────────────────────────────────────────────────────

type fakeEventRepo struct{ s *fakeStore }

func (r *fakeEventRepo) Create(ev *entity.BillingEvent) error {
	if ev.ID == "" {
		ev.ID = fmt.Sprintf("ev-%04d", len(r.s.events)+1)
	}
	r.s.eventSeq++
	ev.Seq = r.s.eventSeq
	r.s.events[ev.ID] = *ev
	return nil
}

func (r *fakeEventRepo) GetByID(id string) (*entity.BillingEvent, error) {
	ev, ok := r.s.events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (r *fakeEventRepo) GetByIDsForUpdate(ids []string) ([]*entity.BillingEvent, error) {
	var list []*entity.BillingEvent
	for _, id := range ids {
		if ev, ok := r.s.events[id]; ok {
			copied := ev
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

func (r *fakeEventRepo) ListPendingForUpdate(clientID string, from, to time.Time) ([]*entity.BillingEvent, error) {
	var list []*entity.BillingEvent
	for id := range r.s.events {
		ev := r.s.events[id]
		if ev.ClientID != clientID || ev.Status != entity.EventStatusPending {
			continue
		}
		if ev.EventDate.Before(from) || !ev.EventDate.Before(to) {
			continue
		}
		copied := ev
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

func (r *fakeEventRepo) MarkInvoiced(id, invoiceID string, amountKRW, fxRate decimal.Decimal) error {
	ev, ok := r.s.events[id]
	if !ok || ev.Status != entity.EventStatusPending {
		return domain.ErrEventsNotFound
	}
	ev.Status = entity.EventStatusInvoiced
	ev.InvoiceID = &invoiceID
	ev.AmountKRW = &amountKRW
	ev.FxRateTHBKRW = &fxRate
	r.s.events[id] = ev
	return nil
}

func (r *fakeEventRepo) RevertToPending(ids []string) error {
	for _, id := range ids {
		ev, ok := r.s.events[id]
		if !ok {
			continue
		}
		ev.Status = entity.EventStatusPending
		ev.InvoiceID = nil
		ev.FxRateTHBKRW = nil
		r.s.events[id] = ev
	}
	return nil
}

func (r *fakeEventRepo) ListByInvoice(invoiceID string) ([]*entity.BillingEvent, error) {
	var list []*entity.BillingEvent
	for id := range r.s.events {
		ev := r.s.events[id]
		if ev.InvoiceID != nil && *ev.InvoiceID == invoiceID {
			copied := ev
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

func (r *fakeEventRepo) List(clientID string, from, to *time.Time, status string, limit, offset int) ([]*entity.BillingEvent, error) {
	var list []*entity.BillingEvent
	for id := range r.s.events {
		ev := r.s.events[id]
		if ev.ClientID != clientID {
			continue
		}
		if status != "" && ev.Status != status {
			continue
		}
		copied := ev
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

// ── invoices ─────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct{ s *fakeStore }

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv-%03d", len(r.s.invoices)+1)
	}
	for _, existing := range r.s.invoices {
		if existing.DeletedAt == nil && existing.InvoiceNo == inv.InvoiceNo {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.itemSeq++
	item.Seq = r.s.itemSeq
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%04d", r.s.itemSeq)
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, nil
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *fakeInvoiceRepo) GetByClientMonthForUpdate(clientID, invoiceMonth string) (*entity.Invoice, error) {
	var newest *entity.Invoice
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		if inv.DeletedAt != nil || inv.ClientID != clientID || inv.InvoiceMonth != invoiceMonth {
			continue
		}
		if newest == nil || inv.CreatedAt.After(newest.CreatedAt) ||
			(inv.CreatedAt.Equal(newest.CreatedAt) && inv.ID > newest.ID) {
			copied := inv
			newest = &copied
		}
	}
	return newest, nil
}

func (r *fakeInvoiceRepo) UpdateTotals(id string, subtotal, vat, total decimal.Decimal, updatedAt time.Time) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.SubtotalKRW = subtotal
	inv.VatKRW = vat
	inv.TotalKRW = total
	inv.UpdatedAt = updatedAt
	r.s.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	r.s.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) SoftDelete(id string) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	inv.DeletedAt = &now
	r.s.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) SoftDeleteItems(invoiceID string) error {
	now := time.Now()
	for id := range r.s.items {
		item := r.s.items[id]
		if item.InvoiceID == invoiceID && item.DeletedAt == nil {
			item.DeletedAt = &now
			r.s.items[id] = item
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	var list []*entity.InvoiceItem
	for id := range r.s.items {
		item := r.s.items[id]
		if item.InvoiceID == invoiceID && item.DeletedAt == nil {
			copied := item
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

func (r *fakeInvoiceRepo) List(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		if inv.DeletedAt == nil && inv.ClientID == clientID {
			copied := inv
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InvoiceNo > list[j].InvoiceNo })
	return list, nil
}

// ── sequences, services, clients ─────────────────────────────────────────────

type fakeSeqRepo struct{ s *fakeStore }

func (r *fakeSeqRepo) Next(clientID, yyyymm string) (int, error) {
	key := clientID + "/" + yyyymm
	r.s.seqs[key]++
	return r.s.seqs[key], nil
}

type fakeServiceRepo struct{ s *fakeStore }

func (r *fakeServiceRepo) Create(svc *entity.Service) error {
	if _, ok := r.s.services[svc.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.services[svc.Code] = *svc
	return nil
}

func (r *fakeServiceRepo) GetByCode(code string) (*entity.Service, error) {
	svc, ok := r.s.services[code]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r *fakeServiceRepo) List() ([]*entity.Service, error) {
	var list []*entity.Service
	for code := range r.s.services {
		svc := r.s.services[code]
		list = append(list, &svc)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

type fakeClientRepo struct{ s *fakeStore }

func (r *fakeClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = fmt.Sprintf("client-%03d", len(r.s.clients)+1)
	}
	for _, existing := range r.s.clients {
		if existing.Code == client.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClientRepo) GetByCode(code string) (*entity.Client, error) {
	for id := range r.s.clients {
		c := r.s.clients[id]
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	var list []*entity.Client
	for id := range r.s.clients {
		c := r.s.clients[id]
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}
