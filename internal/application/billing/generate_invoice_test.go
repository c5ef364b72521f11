package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

type fixture struct {
	store  *fakeStore
	runner *fakeTxRunner
}

func newFixture() *fixture {
	s := newFakeStore()
	return &fixture{store: s, runner: &fakeTxRunner{s: s}}
}

func (f *fixture) clients() *fakeClientRepo   { return &fakeClientRepo{s: f.store} }
func (f *fixture) events() *fakeEventRepo     { return &fakeEventRepo{s: f.store} }
func (f *fixture) rates() *fakeRateRepo       { return &fakeRateRepo{s: f.store} }
func (f *fixture) invoices() *fakeInvoiceRepo { return &fakeInvoiceRepo{s: f.store} }

func (f *fixture) addClient(id, code string) {
	f.store.clients[id] = entity.Client{ID: id, Code: code, Name: code + " Co.", Active: true}
}

func (f *fixture) addRate(id string, date time.Time, rate string) {
	f.store.rates[id] = entity.ExchangeRate{
		ID:            id,
		RateDate:      date,
		BaseCurrency:  entity.CurrencyTHB,
		QuoteCurrency: entity.CurrencyKRW,
		Rate:          dec(rate),
		Status:        entity.RateStatusActive,
		EnteredBy:     "finance",
	}
}

func (f *fixture) addEvent(id, clientID, serviceCode, policy string, date time.Time, qty string, mutate func(*entity.BillingEvent)) {
	ev := entity.BillingEvent{
		ID:            id,
		ClientID:      clientID,
		ServiceCode:   serviceCode,
		ReferenceType: entity.RefTypeManual,
		EventDate:     date,
		Qty:           dec(qty),
		PricingPolicy: policy,
		Status:        entity.EventStatusPending,
		CreatedBy:     "ops",
	}
	if mutate != nil {
		mutate(&ev)
	}
	// Seq mirrors call order, as the store would assign it on insert.
	f.store.eventSeq++
	ev.Seq = f.store.eventSeq
	f.store.events[id] = ev
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var (
	july     = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	julyEnd  = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	rateDate = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
)

func seedJuly(f *fixture) {
	f.addClient("c1", "HANIL")
	f.addRate("rate-1", rateDate, "39.1234")
	f.addEvent("ev-0001", "c1", "STORAGE", entity.PricingTHBBased, july, "1", func(ev *entity.BillingEvent) {
		ev.AmountTHB = decPtr("120")
	})
	f.addEvent("ev-0002", "c1", "STORAGE", entity.PricingTHBBased, july, "3", func(ev *entity.BillingEvent) {
		ev.UnitPriceTHB = dec("40")
	})
	f.addEvent("ev-0003", "c1", "HANDLING", entity.PricingKRWFixed, july, "2", func(ev *entity.BillingEvent) {
		ev.AmountKRW = decPtr("6000")
	})
}

func generateJuly(t *testing.T, f *fixture, regenerate bool) *billing.GenerateResult {
	t.Helper()
	uc := billing.NewGenerateInvoiceUseCase(f.runner, f.clients())
	res, err := uc.Generate(context.Background(), billing.GenerateInput{
		ClientID:        "c1",
		InvoiceMonth:    "2025-07",
		InvoiceDate:     julyEnd,
		RegenerateDraft: regenerate,
		CreatedBy:       "admin",
	})
	require.NoError(t, err)
	return res
}

func TestGenerateAggregatesAndFreezesRate(t *testing.T) {
	f := newFixture()
	seedJuly(f)

	res := generateJuly(t, f, false)

	inv := res.Invoice
	assert.Equal(t, "KRW-HANIL-202507-0001", inv.InvoiceNo)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.FxRateTHBKRW.Equal(dec("39.1234")))
	assert.Equal(t, 3, res.EventsConsumed)
	assert.False(t, res.Reused)

	// 120 THB and 40x3 THB both convert to 4694.808, truncated per event to
	// 4600 each; the 6000 KRW fixed charge passes through.
	assert.True(t, inv.SubtotalKRW.Equal(dec("15200")), "subtotal %s", inv.SubtotalKRW)
	assert.True(t, inv.VatKRW.Equal(dec("1000")), "vat %s", inv.VatKRW)
	assert.True(t, inv.TotalKRW.Equal(dec("16200")), "total %s", inv.TotalKRW)

	require.Len(t, res.Items, 3)
	storage, handling, vat := res.Items[0], res.Items[1], res.Items[2]
	assert.Equal(t, "STORAGE", storage.ServiceCode)
	assert.True(t, storage.Qty.Equal(dec("4")))
	assert.True(t, storage.AmountKRW.Equal(dec("9200")))
	assert.True(t, storage.UnitPriceKRW.Equal(dec("2300")))
	assert.Equal(t, "HANDLING", handling.ServiceCode)
	assert.True(t, handling.AmountKRW.Equal(dec("6000")))
	assert.True(t, handling.UnitPriceKRW.Equal(dec("3000")))
	assert.Equal(t, entity.ServiceCodeVAT, vat.ServiceCode)
	assert.True(t, vat.AmountKRW.Equal(dec("1000")))

	for _, id := range []string{"ev-0001", "ev-0002", "ev-0003"} {
		ev := f.store.events[id]
		assert.Equal(t, entity.EventStatusInvoiced, ev.Status, id)
		require.NotNil(t, ev.InvoiceID, id)
		assert.Equal(t, inv.ID, *ev.InvoiceID, id)
		require.NotNil(t, ev.FxRateTHBKRW, id)
		assert.True(t, ev.FxRateTHBKRW.Equal(dec("39.1234")), id)
	}
	assert.True(t, f.store.rates["rate-1"].Locked)
}

func TestGenerateReusesExistingDraft(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	first := generateJuly(t, f, false)

	second := generateJuly(t, f, false)

	assert.True(t, second.Reused)
	assert.Equal(t, first.Invoice.ID, second.Invoice.ID)
	assert.Equal(t, 0, second.EventsConsumed)
	assert.Len(t, second.Items, 3)
	assert.Len(t, f.store.invoices, 1)
}

func TestGenerateRegeneratesDraft(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	first := generateJuly(t, f, false)

	// A late charge arrives after the first draft.
	f.addEvent("ev-0004", "c1", "HANDLING", entity.PricingKRWFixed, july, "1", func(ev *entity.BillingEvent) {
		ev.AmountKRW = decPtr("5000")
	})

	second := generateJuly(t, f, true)

	assert.NotEqual(t, first.Invoice.ID, second.Invoice.ID)
	assert.Equal(t, "KRW-HANIL-202507-0002", second.Invoice.InvoiceNo)
	assert.Equal(t, 4, second.EventsConsumed)
	assert.True(t, second.Invoice.SubtotalKRW.Equal(dec("20200")))
	assert.True(t, second.Invoice.VatKRW.Equal(dec("1400")))
	assert.True(t, second.Invoice.TotalKRW.Equal(dec("21600")))

	old := f.store.invoices[first.Invoice.ID]
	assert.NotNil(t, old.DeletedAt)
	for _, item := range first.Items {
		assert.NotNil(t, f.store.items[item.ID].DeletedAt, item.ID)
	}
	// Locks survive regeneration.
	assert.True(t, f.store.rates["rate-1"].Locked)
}

func TestGenerateFinalizedMonthFails(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	first := generateJuly(t, f, false)

	inv := f.store.invoices[first.Invoice.ID]
	inv.Status = entity.InvoiceStatusIssued
	f.store.invoices[first.Invoice.ID] = inv

	uc := billing.NewGenerateInvoiceUseCase(f.runner, f.clients())
	for _, regenerate := range []bool{false, true} {
		_, err := uc.Generate(context.Background(), billing.GenerateInput{
			ClientID:        "c1",
			InvoiceMonth:    "2025-07",
			InvoiceDate:     julyEnd,
			RegenerateDraft: regenerate,
			CreatedBy:       "admin",
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	}
}

func TestGenerateNoPendingEventsRollsBack(t *testing.T) {
	f := newFixture()
	f.addClient("c1", "HANIL")
	f.addRate("rate-1", rateDate, "39.1234")

	uc := billing.NewGenerateInvoiceUseCase(f.runner, f.clients())
	_, err := uc.Generate(context.Background(), billing.GenerateInput{
		ClientID:     "c1",
		InvoiceMonth: "2025-07",
		InvoiceDate:  julyEnd,
		CreatedBy:    "admin",
	})
	require.ErrorIs(t, err, domain.ErrNoPendingEvents)

	// Nothing leaks out of the rolled-back transaction, the rate lock and the
	// sequence increment included.
	assert.Empty(t, f.store.invoices)
	assert.Empty(t, f.store.seqs)
	assert.False(t, f.store.rates["rate-1"].Locked)
}

func TestGenerateNoApplicableRate(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	// Only rate is dated after the invoice date.
	rate := f.store.rates["rate-1"]
	rate.RateDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	f.store.rates["rate-1"] = rate

	uc := billing.NewGenerateInvoiceUseCase(f.runner, f.clients())
	_, err := uc.Generate(context.Background(), billing.GenerateInput{
		ClientID:     "c1",
		InvoiceMonth: "2025-07",
		InvoiceDate:  julyEnd,
		CreatedBy:    "admin",
	})
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
	assert.Empty(t, f.store.invoices)
}

func TestGeneratePicksMostRecentRateOnOrBeforeDate(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	f.addRate("rate-0", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "38.5")
	f.addRate("rate-2", time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), "40.0")

	res := generateJuly(t, f, false)

	assert.True(t, res.Invoice.FxRateTHBKRW.Equal(dec("39.1234")))
	assert.True(t, f.store.rates["rate-1"].Locked)
	assert.False(t, f.store.rates["rate-0"].Locked)
	assert.False(t, f.store.rates["rate-2"].Locked)
}

func TestGenerateVATTruncation(t *testing.T) {
	f := newFixture()
	f.addClient("c1", "HANIL")
	f.addRate("rate-1", rateDate, "39.1234")
	f.addEvent("ev-0001", "c1", "STORAGE", entity.PricingKRWFixed, july, "1", func(ev *entity.BillingEvent) {
		ev.AmountKRW = decPtr("15100")
	})

	res := generateJuly(t, f, false)

	// 15,100 x 7% = 1,057 truncates to 1,000.
	assert.True(t, res.Invoice.SubtotalKRW.Equal(dec("15100")))
	assert.True(t, res.Invoice.VatKRW.Equal(dec("1000")))
	assert.True(t, res.Invoice.TotalKRW.Equal(dec("16100")))
}

func TestGenerateEventsOutsideMonthUntouched(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	f.addEvent("ev-0005", "c1", "STORAGE", entity.PricingKRWFixed,
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), "1", func(ev *entity.BillingEvent) {
			ev.AmountKRW = decPtr("9900")
		})

	res := generateJuly(t, f, false)

	assert.Equal(t, 3, res.EventsConsumed)
	assert.Equal(t, entity.EventStatusPending, f.store.events["ev-0005"].Status)
}

func TestGenerateItemOrderFollowsEntryOrderNotIDs(t *testing.T) {
	f := newFixture()
	f.addClient("c1", "HANIL")
	f.addRate("rate-1", rateDate, "39.1234")
	// Random uuid keys sort opposite to entry order; aggregation must follow
	// the order the events were recorded in, not the ids.
	f.addEvent("f9e8d7c6-58af-4ca7-9f10-3d1c62a9b0aa", "c1", "TRUCKING", entity.PricingKRWFixed, july, "1",
		func(ev *entity.BillingEvent) { ev.AmountKRW = decPtr("4000") })
	f.addEvent("0a1b2c3d-91e2-4b06-8c55-77f0dd41e4bb", "c1", "STORAGE", entity.PricingKRWFixed, july, "1",
		func(ev *entity.BillingEvent) { ev.AmountKRW = decPtr("6000") })

	res := generateJuly(t, f, false)

	require.Len(t, res.Items, 3)
	assert.Equal(t, "TRUCKING", res.Items[0].ServiceCode)
	assert.Equal(t, "STORAGE", res.Items[1].ServiceCode)
	assert.Equal(t, entity.ServiceCodeVAT, res.Items[2].ServiceCode)

	// The reuse path reads the persisted items back; order must survive the
	// round trip.
	again := generateJuly(t, f, false)
	require.True(t, again.Reused)
	require.Len(t, again.Items, 3)
	assert.Equal(t, "TRUCKING", again.Items[0].ServiceCode)
	assert.Equal(t, "STORAGE", again.Items[1].ServiceCode)
}

func TestGenerateValidatesInput(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	uc := billing.NewGenerateInvoiceUseCase(f.runner, f.clients())

	_, err := uc.Generate(context.Background(), billing.GenerateInput{
		ClientID: "c1", InvoiceMonth: "2025/07", InvoiceDate: julyEnd, CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(context.Background(), billing.GenerateInput{
		ClientID: "c1", InvoiceMonth: "2025-07", CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(context.Background(), billing.GenerateInput{
		ClientID: "ghost", InvoiceMonth: "2025-07", InvoiceDate: julyEnd, CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
