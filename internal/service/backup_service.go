package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nebulaops/backend/internal/importer"
	"github.com/nebulaops/backend/internal/repository"
	"github.com/nebulaops/backend/internal/storage"
)

const backupContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// backupPrefix namespaces archives inside the bucket.
const backupPrefix = "backups/"

// BackupService renders the four-dataset workbook, optionally archives
// it to object storage, and restores full snapshots from uploads.
type BackupService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	ads       repository.AdsRepository
	inventory repository.InventoryRepository
	archive   storage.ObjectStorage

	forecasts  *ForecastService
	dashboards *DashboardService

	now func() time.Time
}

func NewBackupService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	ads repository.AdsRepository,
	inventory repository.InventoryRepository,
	archive storage.ObjectStorage,
	forecasts *ForecastService,
	dashboards *DashboardService,
) *BackupService {
	if archive == nil {
		archive = storage.NewNoopStorage()
	}
	return &BackupService{
		products:   products,
		sales:      sales,
		ads:        ads,
		inventory:  inventory,
		archive:    archive,
		forecasts:  forecasts,
		dashboards: dashboards,
		now:        time.Now,
	}
}

// Export renders the backup workbook and uploads a copy to the archive
// bucket. The payload is returned either way; an archive failure only
// logs, since the caller still gets the file.
func (s *BackupService) Export(ctx context.Context) (filename string, payload []byte, err error) {
	b, err := s.collect(ctx)
	if err != nil {
		return "", nil, err
	}

	payload, err = importer.WriteBackup(*b)
	if err != nil {
		return "", nil, err
	}

	filename = fmt.Sprintf("nebula_backup_%s.xlsx", s.now().Format("20060102_150405"))
	if err := s.archive.Upload(ctx, backupPrefix+filename, payload, backupContentType); err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("backup: archive upload failed")
	}

	return filename, payload, nil
}

// Restore replaces every dataset with the workbook contents. Partial
// failures leave earlier datasets replaced; the caller is expected to
// retry with a corrected file.
func (s *BackupService) Restore(ctx context.Context, r io.Reader) (*importer.Backup, error) {
	b, err := importer.ParseBackup(r)
	if err != nil {
		return nil, err
	}

	if err := s.products.BulkUpsert(ctx, b.Products); err != nil {
		return nil, fmt.Errorf("restore products: %w", err)
	}
	if err := s.sales.ReplaceAll(ctx, b.Sales); err != nil {
		return nil, fmt.Errorf("restore sales: %w", err)
	}
	if err := s.ads.ReplaceAll(ctx, b.Ads); err != nil {
		return nil, fmt.Errorf("restore ads: %w", err)
	}
	if err := s.inventory.ReplaceAll(ctx, b.Inventory); err != nil {
		return nil, fmt.Errorf("restore inventory: %w", err)
	}

	s.forecasts.Invalidate(ctx)
	s.dashboards.Invalidate(ctx)
	return b, nil
}

// Archives lists the backup copies stored in the bucket.
func (s *BackupService) Archives(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.archive.List(ctx, backupPrefix)
}

// FetchArchive downloads one stored backup by filename.
func (s *BackupService) FetchArchive(ctx context.Context, filename string) ([]byte, error) {
	return s.archive.Download(ctx, backupPrefix+filename)
}

func (s *BackupService) collect(ctx context.Context) (*importer.Backup, error) {
	var b importer.Backup
	var err error

	if b.Products, err = s.products.List(ctx); err != nil {
		return nil, err
	}
	if b.Sales, err = s.sales.List(ctx, repository.SalesFilter{}); err != nil {
		return nil, err
	}
	if b.Ads, err = s.ads.List(ctx); err != nil {
		return nil, err
	}

	snaps, err := s.inventory.Map(ctx)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		b.Inventory = append(b.Inventory, snap)
	}

	return &b, nil
}
