package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

type ProductionRepository struct {
	DB *gorm.DB
}

// LockBundle fetches the bundle FOR UPDATE. Every check-then-commit sequence
// of the production ledger starts here: two concurrent mutations of the same
// bundle serialize on this row, so neither can pass a capacity check against
// a stale aggregate.
func (r *ProductionRepository) LockBundle(tx *gorm.DB, orgID, bundleID uuid.UUID) (*models.Bundle, error) {
	var b models.Bundle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND organization_id = ?", bundleID, orgID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ProductionRepository) GetBundle(orgID, bundleID uuid.UUID) (*models.Bundle, error) {
	var b models.Bundle
	err := r.DB.Where("id = ? AND organization_id = ?", bundleID, orgID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ProductionRepository) GetBundleByLot(orgID uuid.UUID, lotNumber string) (*models.Bundle, error) {
	var b models.Bundle
	err := r.DB.Where("organization_id = ? AND lot_number = ?", orgID, lotNumber).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BundleTotals aggregates assigned and closed quantity across all workers of
// one bundle.
func (r *ProductionRepository) BundleTotals(tx *gorm.DB, bundle *models.Bundle) (models.BundleTotals, error) {
	t := models.BundleTotals{Capacity: bundle.Capacity}

	var assigned int64
	err := tx.Model(&models.Assignment{}).
		Select("COALESCE(SUM(qty), 0)").
		Where("organization_id = ? AND bundle_id = ?", bundle.OrganizationID, bundle.ID).
		Scan(&assigned).Error
	if err != nil {
		return t, err
	}

	var closed int64
	err = tx.Model(&models.PackagingEvent{}).
		Select("COALESCE(SUM(packed_qty + defect_qty), 0)").
		Where("organization_id = ? AND bundle_id = ?", bundle.OrganizationID, bundle.ID).
		Scan(&closed).Error
	if err != nil {
		return t, err
	}

	t.Assigned = int(assigned)
	t.Closed = int(closed)
	return t, nil
}

// WorkerTotals narrows the aggregate to one (bundle, worker) pair.
func (r *ProductionRepository) WorkerTotals(tx *gorm.DB, orgID, bundleID, workerID uuid.UUID) (models.WorkerTotals, error) {
	var t models.WorkerTotals

	var assigned int64
	err := tx.Model(&models.Assignment{}).
		Select("COALESCE(SUM(qty), 0)").
		Where("organization_id = ? AND bundle_id = ? AND worker_id = ?", orgID, bundleID, workerID).
		Scan(&assigned).Error
	if err != nil {
		return t, err
	}

	var closed int64
	err = tx.Model(&models.PackagingEvent{}).
		Select("COALESCE(SUM(packed_qty + defect_qty), 0)").
		Where("organization_id = ? AND bundle_id = ? AND worker_id = ?", orgID, bundleID, workerID).
		Scan(&closed).Error
	if err != nil {
		return t, err
	}

	t.Assigned = int(assigned)
	t.Closed = int(closed)
	return t, nil
}

// HasReferences reports whether any assignment or packaging event references
// the bundle. Capacity edits and bundle deletes are only legal while false.
func (r *ProductionRepository) HasReferences(tx *gorm.DB, orgID, bundleID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&models.Assignment{}).
		Where("organization_id = ? AND bundle_id = ?", orgID, bundleID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	err = tx.Model(&models.PackagingEvent{}).
		Where("organization_id = ? AND bundle_id = ?", orgID, bundleID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasPackagingFor reports whether the worker has any packaging event against
// the bundle. Worker reassignment is forbidden once true.
func (r *ProductionRepository) HasPackagingFor(tx *gorm.DB, orgID, bundleID, workerID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&models.PackagingEvent{}).
		Where("organization_id = ? AND bundle_id = ? AND worker_id = ?", orgID, bundleID, workerID).
		Count(&n).Error
	return n > 0, err
}

func (r *ProductionRepository) GetWorker(orgID, workerID uuid.UUID) (*models.Worker, error) {
	var w models.Worker
	err := r.DB.Where("id = ? AND organization_id = ?", workerID, orgID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *ProductionRepository) GetWorkerByCode(orgID uuid.UUID, code string) (*models.Worker, error) {
	var w models.Worker
	err := r.DB.Where("organization_id = ? AND code = ?", orgID, code).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// WorkerBreakdown lists per-worker assigned/closed totals for one bundle.
type WorkerBreakdownRow struct {
	WorkerID uuid.UUID           `json:"worker_id"`
	Totals   models.WorkerTotals `json:"totals"`
}

func (r *ProductionRepository) WorkerBreakdown(orgID, bundleID uuid.UUID) ([]WorkerBreakdownRow, error) {
	type row struct {
		WorkerID uuid.UUID
		Assigned int
		Closed   int
	}

	var assignedRows []row
	err := r.DB.Model(&models.Assignment{}).
		Select("worker_id, COALESCE(SUM(qty), 0) AS assigned").
		Where("organization_id = ? AND bundle_id = ?", orgID, bundleID).
		Group("worker_id").
		Scan(&assignedRows).Error
	if err != nil {
		return nil, err
	}

	var closedRows []row
	err = r.DB.Model(&models.PackagingEvent{}).
		Select("worker_id, COALESCE(SUM(packed_qty + defect_qty), 0) AS closed").
		Where("organization_id = ? AND bundle_id = ?", orgID, bundleID).
		Group("worker_id").
		Scan(&closedRows).Error
	if err != nil {
		return nil, err
	}

	byWorker := make(map[uuid.UUID]*WorkerBreakdownRow)
	order := make([]uuid.UUID, 0, len(assignedRows))
	for _, a := range assignedRows {
		byWorker[a.WorkerID] = &WorkerBreakdownRow{WorkerID: a.WorkerID, Totals: models.WorkerTotals{Assigned: a.Assigned}}
		order = append(order, a.WorkerID)
	}
	for _, c := range closedRows {
		w, ok := byWorker[c.WorkerID]
		if !ok {
			w = &WorkerBreakdownRow{WorkerID: c.WorkerID}
			byWorker[c.WorkerID] = w
			order = append(order, c.WorkerID)
		}
		w.Totals.Closed = c.Closed
	}

	result := make([]WorkerBreakdownRow, 0, len(order))
	for _, id := range order {
		result = append(result, *byWorker[id])
	}
	return result, nil
}

// WorkerOutputRow is a payroll-style aggregate: packed/defect output of one
// worker over a period, recomputed from packaging events on every read.
type WorkerOutputRow struct {
	WorkerID  uuid.UUID `json:"worker_id"`
	PackedQty int       `json:"packed_qty"`
	DefectQty int       `json:"defect_qty"`
}

func (r *ProductionRepository) WorkerOutput(orgID uuid.UUID, from, to time.Time) ([]WorkerOutputRow, error) {
	rows := make([]WorkerOutputRow, 0)
	query := r.DB.Model(&models.PackagingEvent{}).
		Select("worker_id, COALESCE(SUM(packed_qty), 0) AS packed_qty, COALESCE(SUM(defect_qty), 0) AS defect_qty").
		Where("organization_id = ?", orgID)
	if !from.IsZero() {
		query = query.Where("packed_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("packed_at <= ?", to)
	}
	err := query.Group("worker_id").Scan(&rows).Error
	return rows, err
}
