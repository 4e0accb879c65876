package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/importer"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newFileFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    usage,
		Required: true,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load operator workbooks into the database",
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Upsert the product catalog from an XLSX workbook",
				Flags: []cli.Flag{newDBURLFlag(), newFileFlag("Products workbook path")},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return loadProducts(c.Context, db, c.String("file"))
				}),
			},
			{
				Name:  "sales",
				Usage: "Load the sales ledger from an XLSX workbook",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newFileFlag("Sales workbook path"),
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Wipe the existing ledger before loading",
					},
				},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return loadSales(c.Context, db, c.String("file"), c.Bool("replace"))
				}),
			},
			{
				Name:  "ads",
				Usage: "Load ad spend records from an XLSX workbook",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newFileFlag("Ads workbook path"),
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Wipe existing ad records before loading",
					},
				},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return loadAds(c.Context, db, c.String("file"), c.Bool("replace"))
				}),
			},
			{
				Name:  "inventory",
				Usage: "Upsert counted inventory snapshots from an XLSX workbook",
				Flags: []cli.Flag{newDBURLFlag(), newFileFlag("Inventory workbook path")},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return loadInventory(c.Context, db, c.String("file"))
				}),
			},
			{
				Name:  "backup",
				Usage: "Restore all four datasets from a backup workbook",
				Flags: []cli.Flag{newDBURLFlag(), newFileFlag("Backup workbook path")},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return loadBackup(c.Context, db, c.String("file"))
				}),
			},
			{
				Name:  "all",
				Usage: "Load every dataset from a directory of workbooks",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing products.xlsx, sales.xlsx, ads.xlsx, inventory.xlsx",
						Value:   "./data/seeds",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Action: withDB(loadAll),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withDB(fn func(c *cli.Context, db *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := sql.Open("pgx", c.String("db-url"))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		return fn(c, db)
	}
}

func loadAll(c *cli.Context, db *sql.DB) error {
	dir := c.String("data-dir")

	steps := []struct {
		name string
		run  func(path string) error
	}{
		{"products", func(p string) error { return loadProducts(c.Context, db, p) }},
		{"sales", func(p string) error { return loadSales(c.Context, db, p, false) }},
		{"ads", func(p string) error { return loadAds(c.Context, db, p, false) }},
		{"inventory", func(p string) error { return loadInventory(c.Context, db, p) }},
	}

	for _, st := range steps {
		path := filepath.Join(dir, st.name+".xlsx")
		if _, err := os.Stat(path); err != nil {
			log.Printf("skipping %s: %v", st.name, err)
			continue
		}
		if err := st.run(path); err != nil {
			return fmt.Errorf("failed to seed %s: %w", st.name, err)
		}
	}
	return nil
}

func loadProducts(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	products, err := importer.ParseProducts(f)
	if err != nil {
		return err
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		return insertProducts(ctx, tx, products)
	}); err != nil {
		return err
	}

	log.Printf("seeded %d products", len(products))
	return nil
}

func loadSales(ctx context.Context, db *sql.DB, path string, replace bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	records, err := importer.ParseSales(f)
	if err != nil {
		return err
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
				return fmt.Errorf("failed to clear sales: %w", err)
			}
		}
		return insertSales(ctx, tx, records)
	}); err != nil {
		return err
	}

	log.Printf("seeded %d sales records", len(records))
	return nil
}

func loadAds(ctx context.Context, db *sql.DB, path string, replace bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	records, err := importer.ParseAds(f)
	if err != nil {
		return err
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, `DELETE FROM ads`); err != nil {
				return fmt.Errorf("failed to clear ads: %w", err)
			}
		}
		return insertAds(ctx, tx, records)
	}); err != nil {
		return err
	}

	log.Printf("seeded %d ad records", len(records))
	return nil
}

func loadInventory(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	snaps, err := importer.ParseInventory(f)
	if err != nil {
		return err
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		return insertSnapshots(ctx, tx, snaps)
	}); err != nil {
		return err
	}

	log.Printf("seeded %d inventory snapshots", len(snaps))
	return nil
}

func loadBackup(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	b, err := importer.ParseBackup(f)
	if err != nil {
		return err
	}

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		for _, table := range []string{"sales", "ads", "inventory_snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		if err := insertProducts(ctx, tx, b.Products); err != nil {
			return err
		}
		if err := insertSales(ctx, tx, b.Sales); err != nil {
			return err
		}
		if err := insertAds(ctx, tx, b.Ads); err != nil {
			return err
		}
		return insertSnapshots(ctx, tx, b.Inventory)
	}); err != nil {
		return err
	}

	log.Printf("restored backup: %d products, %d sales, %d ads, %d snapshots",
		len(b.Products), len(b.Sales), len(b.Ads), len(b.Inventory))
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertProducts(ctx context.Context, tx *sql.Tx, products []domain.Product) error {
	const query = `
		INSERT INTO products (sku, parent_sku, name, cost_cny, ship_cny, storage_usd, last_mile_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (sku)
		DO UPDATE SET
			parent_sku = EXCLUDED.parent_sku,
			name = EXCLUDED.name,
			cost_cny = EXCLUDED.cost_cny,
			ship_cny = EXCLUDED.ship_cny,
			storage_usd = EXCLUDED.storage_usd,
			last_mile_usd = EXCLUDED.last_mile_usd,
			updated_at = NOW()`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.SKU, p.ParentSKU, p.Name, p.CostCNY, p.ShipCNY, p.StorageUSD, p.LastMileUSD); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
		}
	}
	return nil
}

func insertSales(ctx context.Context, tx *sql.Tx, records []domain.SaleRecord) error {
	const query = `
		INSERT INTO sales (order_id, date, sku, type, amount, shipping_fee, storage_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.OrderID, rec.Date, rec.SKU, rec.Type, rec.Amount, rec.ShippingFee, rec.StorageFee); err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", rec.SKU, err)
		}
	}
	return nil
}

func insertAds(ctx context.Context, tx *sql.Tx, records []domain.AdRecord) error {
	const query = `INSERT INTO ads (date, parent_sku, total_spend) VALUES ($1, $2, $3)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.ParentSKU, rec.TotalSpend); err != nil {
			return fmt.Errorf("failed to insert ad for %s: %w", rec.ParentSKU, err)
		}
	}
	return nil
}

func insertSnapshots(ctx context.Context, tx *sql.Tx, snaps []domain.InventorySnapshot) error {
	const query = `
		INSERT INTO inventory_snapshots (sku, base_qty, base_date, inbound, inbound_date, daily, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (sku)
		DO UPDATE SET
			base_qty = EXCLUDED.base_qty,
			base_date = EXCLUDED.base_date,
			inbound = EXCLUDED.inbound,
			inbound_date = EXCLUDED.inbound_date,
			daily = EXCLUDED.daily,
			updated_at = NOW()`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snaps {
		if _, err := stmt.ExecContext(ctx, snap.SKU, snap.BaseQty, snap.BaseDate, snap.Inbound, snap.InboundDate, snap.Daily); err != nil {
			return fmt.Errorf("failed to upsert snapshot %s: %w", snap.SKU, err)
		}
	}
	return nil
}
