package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

func newEventUseCase(f *fixture) *billing.EventUseCase {
	return billing.NewEventUseCase(f.runner, f.events(), f.clients())
}

func TestCreateEventDefaults(t *testing.T) {
	f := newFixture()
	wh := "wh-1"
	f.store.clients["c1"] = entity.Client{ID: "c1", Code: "HANIL", DefaultWarehouseID: &wh, Active: true}
	uc := newEventUseCase(f)

	ev, err := uc.CreateEvent(context.Background(), billing.CreateEventInput{
		ClientID:      "c1",
		ServiceCode:   "STORAGE",
		EventDate:     july,
		Qty:           dec("2"),
		PricingPolicy: entity.PricingTHBBased,
		UnitPriceTHB:  dec("40"),
		CreatedBy:     "ops",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.EventStatusPending, ev.Status)
	assert.Nil(t, ev.InvoiceID)
	assert.Nil(t, ev.FxRateTHBKRW)
	assert.Equal(t, entity.RefTypeManual, ev.ReferenceType)
	require.NotNil(t, ev.WarehouseID)
	assert.Equal(t, "wh-1", *ev.WarehouseID)
}

func TestCreateEventPolicyValidation(t *testing.T) {
	f := newFixture()
	f.addClient("c1", "HANIL")
	uc := newEventUseCase(f)

	base := billing.CreateEventInput{
		ClientID:    "c1",
		ServiceCode: "STORAGE",
		EventDate:   july,
		Qty:         dec("1"),
		CreatedBy:   "ops",
	}

	tests := []struct {
		name   string
		mutate func(*billing.CreateEventInput)
		err    error
	}{
		{
			name:   "unknown policy",
			mutate: func(in *billing.CreateEventInput) { in.PricingPolicy = "USD_BASED" },
			err:    domain.ErrInvalidInput,
		},
		{
			name: "thb based without any thb price",
			mutate: func(in *billing.CreateEventInput) {
				in.PricingPolicy = entity.PricingTHBBased
			},
			err: domain.ErrInvalidInput,
		},
		{
			name: "krw fixed without any krw price",
			mutate: func(in *billing.CreateEventInput) {
				in.PricingPolicy = entity.PricingKRWFixed
			},
			err: domain.ErrInvalidInput,
		},
		{
			name: "explicit amount alone is enough",
			mutate: func(in *billing.CreateEventInput) {
				in.PricingPolicy = entity.PricingKRWFixed
				in.AmountKRW = decPtr("15000")
			},
		},
		{
			name: "negative qty",
			mutate: func(in *billing.CreateEventInput) {
				in.PricingPolicy = entity.PricingKRWFixed
				in.AmountKRW = decPtr("15000")
				in.Qty = dec("-1")
			},
			err: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := uc.CreateEvent(context.Background(), in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarkEventsPendingFromDraft(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	res := generateJuly(t, f, false)
	uc := newEventUseCase(f)

	n, err := uc.MarkEventsPending(context.Background(), []string{"ev-0001", "ev-0002"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{"ev-0001", "ev-0002"} {
		ev := f.store.events[id]
		assert.Equal(t, entity.EventStatusPending, ev.Status, id)
		assert.Nil(t, ev.InvoiceID, id)
		assert.Nil(t, ev.FxRateTHBKRW, id)
	}
	// Untouched sibling keeps its link.
	ev := f.store.events["ev-0003"]
	assert.Equal(t, entity.EventStatusInvoiced, ev.Status)
	require.NotNil(t, ev.InvoiceID)
	assert.Equal(t, res.Invoice.ID, *ev.InvoiceID)
}

func TestMarkEventsPendingLockedByIssuedInvoice(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	res := generateJuly(t, f, false)
	lc := billing.NewLifecycleUseCase(f.runner, f.clients())
	_, err := lc.Issue(context.Background(), res.Invoice.ID)
	require.NoError(t, err)
	uc := newEventUseCase(f)

	_, err = uc.MarkEventsPending(context.Background(), []string{"ev-0001"})
	assert.ErrorIs(t, err, domain.ErrEventsLocked)
	assert.Equal(t, entity.EventStatusInvoiced, f.store.events["ev-0001"].Status)
}

func TestMarkEventsPendingMissingIDs(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	generateJuly(t, f, false)
	uc := newEventUseCase(f)

	_, err := uc.MarkEventsPending(context.Background(), []string{"ev-0001", "ghost"})
	assert.ErrorIs(t, err, domain.ErrEventsNotFound)
	assert.Equal(t, entity.EventStatusInvoiced, f.store.events["ev-0001"].Status)

	_, err = uc.MarkEventsPending(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkEventsPendingAfterInvoiceDeleted(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	res := generateJuly(t, f, false)
	require.NoError(t, f.invoices().SoftDelete(res.Invoice.ID))
	uc := newEventUseCase(f)

	n, err := uc.MarkEventsPending(context.Background(), []string{"ev-0001", "ev-0002", "ev-0003"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListEventsFilters(t *testing.T) {
	f := newFixture()
	seedJuly(f)
	generateJuly(t, f, false)
	f.addEvent("ev-0009", "c1", "TRUCKING", entity.PricingKRWFixed, july, "1", func(ev *entity.BillingEvent) {
		amount := decimal.NewFromInt(70000)
		ev.AmountKRW = &amount
	})
	uc := newEventUseCase(f)

	pending, err := uc.ListEvents(context.Background(), "c1", nil, nil, entity.EventStatusPending, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ev-0009", pending[0].ID)

	all, err := uc.ListEvents(context.Background(), "c1", nil, nil, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = uc.ListEvents(context.Background(), "", nil, nil, "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
