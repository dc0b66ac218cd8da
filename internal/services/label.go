package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type LabelService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, name, color string) (*types.Label, error)
	List(ctx context.Context, rd *requestdata.RequestData) ([]*types.Label, error)
	Delete(ctx context.Context, rd *requestdata.RequestData, labelID uuid.UUID) error
	SyncOrderLabels(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, desired []uuid.UUID) (*SyncResult, error)
	SyncSampleLabels(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, desired []uuid.UUID) (*SyncResult, error)
	// EffectiveSampleLabels unions the sample's own labels with its order's
	// labels; order labels flow down to every sample, flagged as inherited.
	EffectiveSampleLabels(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) ([]*LabelView, error)
}

// LabelView is a label plus where it came from: attached to the sample
// itself, or inherited from its order.
type LabelView struct {
	*types.Label
	Inherited bool `json:"inherited"`
}

// EffectiveLabels merges a sample's own labels with those inherited from its
// order. Own labels win on overlap, duplicates collapse by id, and the
// result sorts by name for stable output.
func EffectiveLabels(own, inherited []*types.Label) []*LabelView {
	seen := make(map[uuid.UUID]bool, len(own)+len(inherited))
	out := make([]*LabelView, 0, len(own)+len(inherited))
	for _, l := range own {
		if l == nil || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, &LabelView{Label: l})
	}
	for _, l := range inherited {
		if l == nil || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, &LabelView{Label: l, Inherited: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type labelService struct {
	db         *gorm.DB
	log        *logger.Logger
	labelRepo  repos.LabelRepo
	orderRepo  repos.OrderRepo
	sampleRepo repos.SampleRepo
	events     EventService
}

func NewLabelService(db *gorm.DB, log *logger.Logger, labelRepo repos.LabelRepo, orderRepo repos.OrderRepo, sampleRepo repos.SampleRepo, events EventService) LabelService {
	serviceLog := log.With("service", "LabelService")
	return &labelService{
		db:         db,
		log:        serviceLog,
		labelRepo:  labelRepo,
		orderRepo:  orderRepo,
		sampleRepo: sampleRepo,
		events:     events,
	}
}

func (s *labelService) Create(ctx context.Context, rd *requestdata.RequestData, name, color string) (*types.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("label name is required")
	}

	label := &types.Label{
		TenantID: rd.TenantID,
		Name:     name,
		Color:    color,
	}
	if _, err := s.labelRepo.Create(ctx, nil, label); err != nil {
		if strings.Contains(err.Error(), "uq_label_name_tenant") {
			return nil, apierr.Conflict("label %q already exists", name)
		}
		return nil, err
	}
	return label, nil
}

func (s *labelService) List(ctx context.Context, rd *requestdata.RequestData) ([]*types.Label, error) {
	return s.labelRepo.ListByTenant(ctx, nil, rd.TenantID)
}

func (s *labelService) Delete(ctx context.Context, rd *requestdata.RequestData, labelID uuid.UUID) error {
	label, err := s.labelRepo.GetByID(ctx, nil, labelID)
	if err != nil {
		return mapNotFound(err, "label %s not found", labelID)
	}
	if label.TenantID != rd.TenantID {
		return apierr.NotFound("label %s not found", labelID)
	}
	return s.labelRepo.Delete(ctx, nil, labelID)
}

func (s *labelService) SyncOrderLabels(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	var result *SyncResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByID(ctx, tx, orderID)
		if err != nil {
			return mapNotFound(err, "order %s not found", orderID)
		}
		if order.TenantID != rd.TenantID {
			return apierr.NotFound("order %s not found", orderID)
		}

		labelByID, err := s.requireTenantLabels(ctx, tx, rd.TenantID, desired)
		if err != nil {
			return err
		}

		existing, err := s.labelRepo.ListOrderLabels(ctx, tx, orderID)
		if err != nil {
			return err
		}
		current := make([]uuid.UUID, 0, len(existing))
		for _, ol := range existing {
			current = append(current, ol.LabelID)
		}

		added, removed := ReconcileDiff(current, desired)

		if err := s.labelRepo.DetachFromOrder(ctx, tx, orderID, removed); err != nil {
			return err
		}
		actor := rd.UserID
		rows := make([]*types.OrderLabel, 0, len(added))
		for _, labelID := range added {
			rows = append(rows, &types.OrderLabel{
				TenantID:  rd.TenantID,
				OrderID:   orderID,
				LabelID:   labelID,
				CreatedBy: &actor,
			})
		}
		if err := s.labelRepo.AttachToOrder(ctx, tx, rows); err != nil {
			return err
		}

		if err := s.emitLabelDiff(ctx, tx, rd, order.BranchID, orderID, nil, labelByID, added, removed); err != nil {
			return err
		}

		result = &SyncResult{Added: added, Removed: removed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *labelService) SyncSampleLabels(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	var result *SyncResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sample, err := s.sampleRepo.GetByID(ctx, tx, sampleID)
		if err != nil {
			return mapNotFound(err, "sample %s not found", sampleID)
		}
		if sample.TenantID != rd.TenantID {
			return apierr.NotFound("sample %s not found", sampleID)
		}

		labelByID, err := s.requireTenantLabels(ctx, tx, rd.TenantID, desired)
		if err != nil {
			return err
		}

		existing, err := s.labelRepo.ListSampleLabels(ctx, tx, sampleID)
		if err != nil {
			return err
		}
		current := make([]uuid.UUID, 0, len(existing))
		for _, sl := range existing {
			current = append(current, sl.LabelID)
		}

		added, removed := ReconcileDiff(current, desired)

		if err := s.labelRepo.DetachFromSample(ctx, tx, sampleID, removed); err != nil {
			return err
		}
		actor := rd.UserID
		rows := make([]*types.SampleLabel, 0, len(added))
		for _, labelID := range added {
			rows = append(rows, &types.SampleLabel{
				TenantID:  rd.TenantID,
				SampleID:  sampleID,
				LabelID:   labelID,
				CreatedBy: &actor,
			})
		}
		if err := s.labelRepo.AttachToSample(ctx, tx, rows); err != nil {
			return err
		}

		if err := s.emitLabelDiff(ctx, tx, rd, sample.BranchID, sample.OrderID, &sample.ID, labelByID, added, removed); err != nil {
			return err
		}

		result = &SyncResult{Added: added, Removed: removed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *labelService) EffectiveSampleLabels(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) ([]*LabelView, error) {
	sample, err := s.sampleRepo.GetByID(ctx, nil, sampleID)
	if err != nil {
		return nil, mapNotFound(err, "sample %s not found", sampleID)
	}
	if sample.TenantID != rd.TenantID {
		return nil, apierr.NotFound("sample %s not found", sampleID)
	}

	sampleLabels, err := s.labelRepo.ListSampleLabels(ctx, nil, sampleID)
	if err != nil {
		return nil, err
	}
	orderLabels, err := s.labelRepo.ListOrderLabels(ctx, nil, sample.OrderID)
	if err != nil {
		return nil, err
	}

	own := make([]*types.Label, 0, len(sampleLabels))
	for _, sl := range sampleLabels {
		own = append(own, sl.Label)
	}
	inherited := make([]*types.Label, 0, len(orderLabels))
	for _, ol := range orderLabels {
		inherited = append(inherited, ol.Label)
	}
	return EffectiveLabels(own, inherited), nil
}

func (s *labelService) requireTenantLabels(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*types.Label, error) {
	labels, err := s.labelRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.Label, len(labels))
	for _, l := range labels {
		if l.TenantID == tenantID {
			byID[l.ID] = l
		}
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apierr.Validation("label %s not found in tenant", id)
		}
	}
	return byID, nil
}

func (s *labelService) emitLabelDiff(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, branchID, orderID uuid.UUID, sampleID *uuid.UUID, labelByID map[uuid.UUID]*types.Label, added, removed []uuid.UUID) error {
	names := func(ids []uuid.UUID) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if l, ok := labelByID[id]; ok {
				out = append(out, l.Name)
			} else {
				out = append(out, id.String())
			}
		}
		return out
	}

	if len(added) > 0 {
		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  branchID,
			OrderID:   orderID,
			SampleID:  sampleID,
			EventType: types.EventLabelsAdded,
			Metadata: map[string]interface{}{
				"labels": names(added),
				"count":  len(added),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}
	}
	if len(removed) > 0 {
		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  branchID,
			OrderID:   orderID,
			SampleID:  sampleID,
			EventType: types.EventLabelsRemoved,
			Metadata: map[string]interface{}{
				"labels": names(removed),
				"count":  len(removed),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}
	}
	return nil
}
