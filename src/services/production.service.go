package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
)

// ============ REQUEST STRUCTS ============
type RecordCutRequest struct {
	OrganizationID uuid.UUID
	Number         string
	CutDate        time.Time
	FabricItemID   *uint
	RollsUsed      decimal.Decimal
	FabricCost     decimal.Decimal
	MetersUsed     decimal.Decimal
	CreatedBy      string
	Bundles        []BundleSpec
}

type BundleSpec struct {
	LotNumber string
	ProductID uint
	ColorID   uint
	Size      string
	Capacity  int
	Rate      *decimal.Decimal
}

type CreateAssignmentRequest struct {
	OrganizationID uuid.UUID
	BundleID       uuid.UUID
	WorkerID       uuid.UUID
	Qty            int
	AssignedAt     time.Time
}

type UpdateAssignmentRequest struct {
	OrganizationID uuid.UUID
	AssignmentID   uuid.UUID
	Qty            *int
	WorkerID       *uuid.UUID
}

type CreatePackagingRequest struct {
	OrganizationID uuid.UUID
	BundleID       uuid.UUID
	WorkerID       uuid.UUID
	PackedQty      int
	DefectQty      int
	PackedAt       time.Time
}

// BundleOverview is the read model for one bundle: derived status plus the
// per-worker breakdown with party numbers.
type BundleOverview struct {
	Bundle  models.Bundle       `json:"bundle"`
	Totals  models.BundleTotals `json:"totals"`
	Status  models.BundleStatus `json:"status"`
	Workers []BundleWorkerRow   `json:"workers"`
}

type BundleWorkerRow struct {
	WorkerID    uuid.UUID           `json:"worker_id"`
	WorkerCode  string              `json:"worker_code"`
	PartyNumber string              `json:"party_number"`
	Totals      models.WorkerTotals `json:"totals"`
}

// ============ PRODUCTION SERVICE ============

// ProductionService is the production quantity ledger: bundle capacity is
// the source of truth, assignments consume it per worker, packaging events
// close assignment quantity. Every mutation locks the bundle row first, so
// the read-validate-write sequence is serializable per bundle.
type ProductionService struct {
	DB        *gorm.DB
	Repo      *repositories.ProductionRepository
	Warehouse *WarehouseService
	Log       *logrus.Logger
}

// RecordCut registers a cutting job with its bundles and, when fabric is
// referenced, issues the consumed fabric from the warehouse. RollsUsed may be
// fractional; it is validated against fabric stock only and never enters the
// piece-count conservation chain.
func (s *ProductionService) RecordCut(req RecordCutRequest) (*models.Cut, error) {
	if len(req.Bundles) == 0 {
		return nil, errors.New("cut must contain at least one bundle")
	}
	for _, spec := range req.Bundles {
		if spec.Capacity <= 0 {
			return nil, fmt.Errorf("bundle %s: capacity must be positive", spec.LotNumber)
		}
	}

	cut := &models.Cut{
		OrganizationID: req.OrganizationID,
		Number:         req.Number,
		CutDate:        req.CutDate,
		FabricItemID:   req.FabricItemID,
		RollsUsed:      req.RollsUsed,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cut).Error; err != nil {
			return err
		}

		for _, spec := range req.Bundles {
			bundle := models.Bundle{
				OrganizationID: req.OrganizationID,
				CutID:          cut.ID,
				LotNumber:      spec.LotNumber,
				ProductID:      spec.ProductID,
				ColorID:        spec.ColorID,
				Size:           spec.Size,
				Capacity:       spec.Capacity,
				Rate:           spec.Rate,
			}
			if err := tx.Create(&bundle).Error; err != nil {
				return err
			}
		}

		if req.FabricItemID != nil && req.RollsUsed.IsPositive() {
			issue := &models.WarehouseMovement{
				OrganizationID: req.OrganizationID,
				ItemID:         *req.FabricItemID,
				Reason:         models.ReasonIssue,
				Rolls:          req.RollsUsed.Neg(),
				Meters:         req.MetersUsed.Neg(),
				TotalCost:      req.FabricCost.Neg(),
				MovementDate:   req.CutDate,
				RefID:          &cut.ID,
				CreatedBy:      req.CreatedBy,
			}
			if err := s.Warehouse.postMovementTx(tx, issue); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cut, nil
}

// UpdateBundleCapacity changes the capacity of a still-unreferenced bundle.
func (s *ProductionService) UpdateBundleCapacity(orgID, bundleID uuid.UUID, capacity int) error {
	if capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		bundle, err := s.Repo.LockBundle(tx, orgID, bundleID)
		if err != nil {
			return err
		}
		referenced, err := s.Repo.HasReferences(tx, orgID, bundleID)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.ErrBundleReferenced
		}
		bundle.Capacity = capacity
		return tx.Save(bundle).Error
	})
}

// DeleteBundle removes a bundle that nothing references yet.
func (s *ProductionService) DeleteBundle(orgID, bundleID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		bundle, err := s.Repo.LockBundle(tx, orgID, bundleID)
		if err != nil {
			return err
		}
		referenced, err := s.Repo.HasReferences(tx, orgID, bundleID)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.ErrBundleReferenced
		}
		return tx.Delete(bundle).Error
	})
}

// GetBundleOverview derives bundle status and the per-worker breakdown.
func (s *ProductionService) GetBundleOverview(orgID, bundleID uuid.UUID) (*BundleOverview, error) {
	bundle, err := s.Repo.GetBundle(orgID, bundleID)
	if err != nil {
		return nil, err
	}
	totals, err := s.Repo.BundleTotals(s.DB, bundle)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.Repo.WorkerBreakdown(orgID, bundleID)
	if err != nil {
		return nil, err
	}

	overview := &BundleOverview{
		Bundle: *bundle,
		Totals: totals,
		Status: totals.Status(),
	}
	for _, row := range breakdown {
		worker, err := s.Repo.GetWorker(orgID, row.WorkerID)
		if err != nil {
			return nil, err
		}
		overview.Workers = append(overview.Workers, BundleWorkerRow{
			WorkerID:    worker.ID,
			WorkerCode:  worker.Code,
			PartyNumber: models.FormatPartyNumber(bundle.LotNumber, worker.Code),
			Totals:      row.Totals,
		})
	}
	return overview, nil
}

// ResolvePartyNumber maps "<lot_no>-<worker_code>" back to the (bundle,
// worker) pair, splitting on the last hyphen.
func (s *ProductionService) ResolvePartyNumber(orgID uuid.UUID, partyNumber string) (*models.Bundle, *models.Worker, error) {
	lotNumber, workerCode, err := models.ParsePartyNumber(partyNumber)
	if err != nil {
		return nil, nil, err
	}
	bundle, err := s.Repo.GetBundleByLot(orgID, lotNumber)
	if err != nil {
		return nil, nil, err
	}
	worker, err := s.Repo.GetWorkerByCode(orgID, workerCode)
	if err != nil {
		return nil, nil, err
	}
	return bundle, worker, nil
}

// CreateAssignment claims bundle quantity for a worker. Rejected with
// ErrCapacityExceeded when the bundle total would pass capacity.
func (s *ProductionService) CreateAssignment(req CreateAssignmentRequest) (*models.Assignment, error) {
	if req.Qty <= 0 {
		return nil, errors.New("assignment qty must be positive")
	}
	if _, err := s.Repo.GetWorker(req.OrganizationID, req.WorkerID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		OrganizationID: req.OrganizationID,
		BundleID:       req.BundleID,
		WorkerID:       req.WorkerID,
		Qty:            req.Qty,
		Source:         models.SourceManual,
		AssignedAt:     req.AssignedAt,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		bundle, err := s.Repo.LockBundle(tx, req.OrganizationID, req.BundleID)
		if err != nil {
			return err
		}
		totals, err := s.Repo.BundleTotals(tx, bundle)
		if err != nil {
			return err
		}
		if !totals.CanAssign(req.Qty) {
			return fmt.Errorf("%w: %d assigned + %d requested > capacity %d",
				apperrors.ErrCapacityExceeded, totals.Assigned, req.Qty, totals.Capacity)
		}
		return tx.Create(assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// UpdateAssignment changes quantity and/or worker of an assignment.
// Reassignment is forbidden once the old worker has packaging against the
// bundle; quantity may never drop below the worker's closed total; quantity
// growth re-validates bundle capacity.
func (s *ProductionService) UpdateAssignment(req UpdateAssignmentRequest) error {
	if req.Qty == nil && req.WorkerID == nil {
		return errors.New("nothing to update")
	}
	if req.Qty != nil && *req.Qty <= 0 {
		return errors.New("assignment qty must be positive")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		err := tx.Where("id = ? AND organization_id = ?", req.AssignmentID, req.OrganizationID).
			First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}

		bundle, err := s.Repo.LockBundle(tx, req.OrganizationID, assignment.BundleID)
		if err != nil {
			return err
		}

		workerID := assignment.WorkerID
		workerChanged := false
		if req.WorkerID != nil && *req.WorkerID != assignment.WorkerID {
			closed, err := s.Repo.HasPackagingFor(tx, req.OrganizationID, bundle.ID, assignment.WorkerID)
			if err != nil {
				return err
			}
			if closed {
				return fmt.Errorf("%w: bundle %s", apperrors.ErrAlreadyClosed, bundle.LotNumber)
			}
			if _, err := s.Repo.GetWorker(req.OrganizationID, *req.WorkerID); err != nil {
				return err
			}
			workerID = *req.WorkerID
			workerChanged = true
		}

		if req.Qty != nil {
			workerTotals, err := s.Repo.WorkerTotals(tx, req.OrganizationID, bundle.ID, workerID)
			if err != nil {
				return err
			}
			// The worker's other assignments stay; only this row changes.
			// When the row moves to another worker it is not yet counted in
			// that worker's totals.
			otherAssigned := workerTotals.Assigned - assignment.Qty
			if workerChanged {
				otherAssigned = workerTotals.Assigned
			}
			if otherAssigned+*req.Qty < workerTotals.Closed {
				return fmt.Errorf("%w: %d closed > %d assigned",
					apperrors.ErrBelowClosed, workerTotals.Closed, otherAssigned+*req.Qty)
			}

			totals, err := s.Repo.BundleTotals(tx, bundle)
			if err != nil {
				return err
			}
			if totals.Assigned-assignment.Qty+*req.Qty > totals.Capacity {
				return fmt.Errorf("%w: bundle total %d > capacity %d",
					apperrors.ErrCapacityExceeded, totals.Assigned-assignment.Qty+*req.Qty, totals.Capacity)
			}
			assignment.Qty = *req.Qty
		}

		assignment.WorkerID = workerID
		return tx.Save(&assignment).Error
	})
}

// DeleteAssignment removes a claim, provided the worker's remaining assigned
// quantity still covers what the worker has already closed.
func (s *ProductionService) DeleteAssignment(orgID, assignmentID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		err := tx.Where("id = ? AND organization_id = ?", assignmentID, orgID).
			First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := s.Repo.LockBundle(tx, orgID, assignment.BundleID); err != nil {
			return err
		}
		workerTotals, err := s.Repo.WorkerTotals(tx, orgID, assignment.BundleID, assignment.WorkerID)
		if err != nil {
			return err
		}
		if workerTotals.Assigned-assignment.Qty < workerTotals.Closed {
			return fmt.Errorf("%w: %d closed for worker", apperrors.ErrBelowClosed, workerTotals.Closed)
		}
		return tx.Delete(&assignment).Error
	})
}

// CreatePackagingEvent records completed output. When the worker's closed
// total would pass their assigned total, the missing assignment quantity is
// inferred and created with source auto_from_packaging before the event is
// accepted. Both conservation checks run under the bundle lock and either
// everything commits or nothing does.
func (s *ProductionService) CreatePackagingEvent(req CreatePackagingRequest) (*models.PackagingEvent, error) {
	if req.PackedQty < 0 || req.DefectQty < 0 {
		return nil, errors.New("packed and defect quantities must not be negative")
	}
	addClosed := req.PackedQty + req.DefectQty
	if addClosed == 0 {
		return nil, errors.New("packed and defect quantities must not both be zero")
	}
	if _, err := s.Repo.GetWorker(req.OrganizationID, req.WorkerID); err != nil {
		return nil, err
	}

	event := &models.PackagingEvent{
		OrganizationID: req.OrganizationID,
		BundleID:       req.BundleID,
		WorkerID:       req.WorkerID,
		PackedQty:      req.PackedQty,
		DefectQty:      req.DefectQty,
		PackedAt:       req.PackedAt,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		bundle, err := s.Repo.LockBundle(tx, req.OrganizationID, req.BundleID)
		if err != nil {
			return err
		}
		totals, err := s.Repo.BundleTotals(tx, bundle)
		if err != nil {
			return err
		}
		workerTotals, err := s.Repo.WorkerTotals(tx, req.OrganizationID, bundle.ID, req.WorkerID)
		if err != nil {
			return err
		}

		shortfall := workerTotals.Shortfall(addClosed)
		if shortfall > 0 && !totals.CanAssign(shortfall) {
			return fmt.Errorf("%w: inferred assignment of %d would exceed capacity %d",
				apperrors.ErrCapacityExceeded, shortfall, totals.Capacity)
		}
		if !totals.CanClose(addClosed) {
			return fmt.Errorf("%w: %d closed + %d > capacity %d",
				apperrors.ErrBundleOverClosed, totals.Closed, addClosed, totals.Capacity)
		}

		if shortfall > 0 {
			auto := models.Assignment{
				OrganizationID: req.OrganizationID,
				BundleID:       bundle.ID,
				WorkerID:       req.WorkerID,
				Qty:            shortfall,
				Source:         models.SourceAutoFromPackaging,
				AssignedAt:     req.PackedAt,
			}
			if err := tx.Create(&auto).Error; err != nil {
				return err
			}
			s.Log.WithFields(logrus.Fields{
				"bundle_id": bundle.ID,
				"worker_id": req.WorkerID,
				"qty":       shortfall,
			}).Info("auto assignment inferred from packaging")
		}

		return tx.Create(event).Error
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// DeletePackagingEvent removes the record. Assignments auto-created to cover
// it are kept as a record of historical commitment.
func (s *ProductionService) DeletePackagingEvent(orgID, eventID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var event models.PackagingEvent
		err := tx.Where("id = ? AND organization_id = ?", eventID, orgID).
			First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := s.Repo.LockBundle(tx, orgID, event.BundleID); err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}

// WorkerOutput aggregates packed/defect output per worker over a period,
// recomputed from packaging events on each call.
func (s *ProductionService) WorkerOutput(orgID uuid.UUID, from, to time.Time) ([]repositories.WorkerOutputRow, error) {
	return s.Repo.WorkerOutput(orgID, from, to)
}
