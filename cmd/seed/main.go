// seed populates master data for local development: two warehouses, two
// clients, the service catalog and a week of THB→KRW rates.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/infrastructure/postgres"
	"github.com/krlogis/wms-backoffice/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PostgreSQL connection: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	whBangna := uuid.New().String()
	whLaemChabang := uuid.New().String()
	warehouses := []struct{ id, code, name string }{
		{whBangna, "BKK-BANGNA", "Bangna Distribution Center"},
		{whLaemChabang, "LCB-PORT", "Laem Chabang Port Warehouse"},
	}
	for _, w := range warehouses {
		_, err := pool.Exec(ctx, `
			INSERT INTO warehouses (id, code, name, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (code) DO NOTHING`,
			w.id, w.code, w.name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed warehouses: %v\n", err)
			os.Exit(1)
		}
	}

	clients := []struct{ code, name, warehouse string }{
		{"HANIL", "Hanil Trading Co.", whBangna},
		{"KMART", "K-Mart Logistics Korea", whLaemChabang},
	}
	for _, c := range clients {
		_, err := pool.Exec(ctx, `
			INSERT INTO clients (id, code, name, default_warehouse_id, contact_email, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, now(), now())
			ON CONFLICT (code) DO NOTHING`,
			uuid.New().String(), c.code, c.name, c.warehouse, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed clients: %v\n", err)
			os.Exit(1)
		}
	}

	services := []struct{ code, name, nameKo string }{
		{"STORAGE", "Pallet storage (monthly)", "보관료"},
		{"HANDLING_IN", "Inbound handling", "입고 작업료"},
		{"HANDLING_OUT", "Outbound handling", "출고 작업료"},
		{"CUSTOMS", "Customs clearance", "통관 수수료"},
		{"TRUCKING", "Local trucking", "운송료"},
	}
	for _, s := range services {
		_, err := pool.Exec(ctx, `
			INSERT INTO services (code, name, name_ko, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (code) DO NOTHING`,
			s.code, s.name, s.nameKo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed services: %v\n", err)
			os.Exit(1)
		}
	}

	// One active rate per day for the last seven days.
	base := decimal.RequireFromString("39.10")
	for i := 0; i < 7; i++ {
		day := time.Now().AddDate(0, 0, -i).Truncate(24 * time.Hour)
		rate := base.Add(decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(100)))
		_, err := pool.Exec(ctx, `
			INSERT INTO exchange_rates (id, rate_date, base_currency, quote_currency, rate, status, locked, entered_by, created_at, updated_at)
			VALUES ($1, $2, 'THB', 'KRW', $3, 'active', false, 'seed', now(), now())
			ON CONFLICT DO NOTHING`,
			uuid.New().String(), day, rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed exchange rates: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("seed completed")
}
