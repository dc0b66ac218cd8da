package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type SampleService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, in CreateSampleInput) (*types.Sample, error)
	// UpdateState sets the sample state and recomputes the order status in
	// the same transaction.
	UpdateState(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, state types.SampleState) (*types.Sample, error)
	Get(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) (*types.Sample, error)
	ListByOrder(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.Sample, error)
	AddImage(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, in AddImageInput) (*types.SampleImage, error)
	ListImages(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) ([]*SampleImageView, error)
}

type CreateSampleInput struct {
	OrderID     uuid.UUID
	SampleCode  string
	Type        types.SampleType
	CollectedAt *time.Time
	ReceivedAt  *time.Time
	Notes       string
}

type AddImageInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Label       string
	IsPrimary   bool
}

type SampleImageView struct {
	Image *types.SampleImage `json:"image"`
	URL   string             `json:"url,omitempty"`
}

type sampleService struct {
	db          *gorm.DB
	log         *logger.Logger
	sampleRepo  repos.SampleRepo
	orderRepo   repos.OrderRepo
	storageRepo repos.StorageObjectRepo
	workflow    WorkflowService
	events      EventService
	bucket      BucketService
}

func NewSampleService(db *gorm.DB, log *logger.Logger, sampleRepo repos.SampleRepo, orderRepo repos.OrderRepo, storageRepo repos.StorageObjectRepo, workflow WorkflowService, events EventService, bucket BucketService) SampleService {
	serviceLog := log.With("service", "SampleService")
	return &sampleService{
		db:          db,
		log:         serviceLog,
		sampleRepo:  sampleRepo,
		orderRepo:   orderRepo,
		storageRepo: storageRepo,
		workflow:    workflow,
		events:      events,
		bucket:      bucket,
	}
}

func (s *sampleService) Create(ctx context.Context, rd *requestdata.RequestData, in CreateSampleInput) (*types.Sample, error) {
	if !in.Type.Valid() {
		return nil, apierr.Validation("invalid sample type: %s", in.Type)
	}
	if in.SampleCode == "" {
		return nil, apierr.Validation("sample_code is required")
	}

	var sample *types.Sample
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByID(ctx, tx, in.OrderID)
		if err != nil {
			return mapNotFound(err, "order %s not found", in.OrderID)
		}
		if order.TenantID != rd.TenantID {
			return apierr.NotFound("order %s not found", in.OrderID)
		}
		if order.Status == types.OrderStatusCancelled {
			return apierr.Validation("cannot add a sample to a cancelled order")
		}

		exists, err := s.sampleRepo.CodeExistsForOrder(ctx, tx, order.ID, in.SampleCode)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Conflict("sample code %s already used in this order", in.SampleCode)
		}

		sample = &types.Sample{
			TenantID:    order.TenantID,
			BranchID:    order.BranchID,
			OrderID:     order.ID,
			SampleCode:  in.SampleCode,
			Type:        in.Type,
			State:       types.SampleStateReceived,
			CollectedAt: in.CollectedAt,
			ReceivedAt:  in.ReceivedAt,
			Notes:       in.Notes,
		}
		if _, err := s.sampleRepo.Create(ctx, tx, sample); err != nil {
			return err
		}

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			SampleID:  &sample.ID,
			EventType: types.EventSampleCreated,
			Metadata: map[string]interface{}{
				"sample_code": sample.SampleCode,
				"type":        string(sample.Type),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *sampleService) UpdateState(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, state types.SampleState) (*types.Sample, error) {
	if !state.Valid() {
		return nil, apierr.Validation("invalid sample state: %s", state)
	}

	var sample *types.Sample
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sample, err = s.getOwned(ctx, tx, rd, sampleID)
		if err != nil {
			return err
		}
		if sample.State == state {
			return nil
		}

		previous := sample.State
		if err := s.sampleRepo.UpdateState(ctx, tx, sample.ID, state); err != nil {
			return err
		}
		sample.State = state

		eventType := types.EventSampleStateChanged
		if state == types.SampleStateCancelled {
			eventType = types.EventSampleCancelled
		}
		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  sample.TenantID,
			BranchID:  sample.BranchID,
			OrderID:   sample.OrderID,
			SampleID:  &sample.ID,
			EventType: eventType,
			Metadata: map[string]interface{}{
				"sample_code": sample.SampleCode,
				"from":        string(previous),
				"to":          string(state),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, sample.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *sampleService) Get(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) (*types.Sample, error) {
	return s.getOwned(ctx, nil, rd, sampleID)
}

func (s *sampleService) ListByOrder(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.Sample, error) {
	order, err := s.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, mapNotFound(err, "order %s not found", orderID)
	}
	if order.TenantID != rd.TenantID {
		return nil, apierr.NotFound("order %s not found", orderID)
	}
	return s.sampleRepo.ListByOrderID(ctx, nil, orderID)
}

func (s *sampleService) AddImage(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID, in AddImageInput) (*types.SampleImage, error) {
	var image *types.SampleImage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sample, err := s.getOwned(ctx, tx, rd, sampleID)
		if err != nil {
			return err
		}

		key := fmt.Sprintf("tenants/%s/samples/%s/images/%s-%s",
			sample.TenantID, sample.ID, uuid.NewString(), in.Filename)
		obj, err := s.bucket.Upload(ctx, tx, UploadInput{
			TenantID:    sample.TenantID,
			Key:         key,
			ContentType: in.ContentType,
			Body:        in.Body,
			CreatedBy:   rd.UserID,
		})
		if err != nil {
			return err
		}

		actor := rd.UserID
		image = &types.SampleImage{
			TenantID:  sample.TenantID,
			BranchID:  sample.BranchID,
			SampleID:  sample.ID,
			StorageID: obj.ID,
			Label:     in.Label,
			IsPrimary: in.IsPrimary,
			CreatedBy: &actor,
		}
		if _, err := s.sampleRepo.CreateImage(ctx, tx, image); err != nil {
			return err
		}

		_, err = s.events.Emit(ctx, tx, EmitInput{
			TenantID:  sample.TenantID,
			BranchID:  sample.BranchID,
			OrderID:   sample.OrderID,
			SampleID:  &sample.ID,
			EventType: types.EventSampleImageAdded,
			Metadata: map[string]interface{}{
				"image_id": image.ID.String(),
				"label":    in.Label,
			},
			ActorID: rd.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *sampleService) ListImages(ctx context.Context, rd *requestdata.RequestData, sampleID uuid.UUID) ([]*SampleImageView, error) {
	sample, err := s.getOwned(ctx, nil, rd, sampleID)
	if err != nil {
		return nil, err
	}
	images, err := s.sampleRepo.ListImages(ctx, nil, sample.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*SampleImageView, 0, len(images))
	for _, img := range images {
		view := &SampleImageView{Image: img}
		if obj, err := s.storageRepo.GetByID(ctx, nil, img.StorageID); err == nil {
			if url, err := s.bucket.SignedURL(obj.Key, 15*time.Minute); err == nil {
				view.URL = url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *sampleService) getOwned(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, sampleID uuid.UUID) (*types.Sample, error) {
	sample, err := s.sampleRepo.GetByID(ctx, tx, sampleID)
	if err != nil {
		return nil, mapNotFound(err, "sample %s not found", sampleID)
	}
	if sample.TenantID != rd.TenantID {
		return nil, apierr.NotFound("sample %s not found", sampleID)
	}
	return sample, nil
}
