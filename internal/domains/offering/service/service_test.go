package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/config"
	"studio/infras/otel/mocks"
	s3Mocks "studio/infras/s3/mocks"
	offeringMocks "studio/internal/domains/offering/mocks"
	"studio/internal/domains/offering/model"
	"studio/internal/domains/offering/model/dto"
	"studio/internal/domains/offering/service"
	cacheMocks "studio/shared/cache/mocks"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	gModel "studio/shared/model"
	"studio/shared/principal"
	"studio/shared/timezone"
)

var (
	admin    = principal.Principal{UserID: "admin-1", Role: constant.RoleAdmin}
	customer = principal.Principal{UserID: "user-1", Role: constant.RoleCustomer}
	errCache = errors.New("cache miss")
)

type fixture struct {
	svc  service.Service
	repo *offeringMocks.MockService
	s3   *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCache).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo: offeringMocks.NewMockService(ctrl),
		s3:   s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, cfg, mockCache, mocks.NewOtel(), f.s3)

	return f
}

func sampleService(id string) model.Service {
	category := "Weddings"
	image := "https://cdn.studio.test/services/old.jpg"

	return model.Service{
		ID:            id,
		CategoryID:    "category-1",
		Name:          "Full Day Wedding",
		Slug:          "full-day-wedding",
		Description:   "Ceremony and reception coverage",
		Price:         decimal.RequireFromString("1000.00"),
		DurationHours: 8,
		Inclusions:    pq.StringArray{"Edited photos", "Online gallery"},
		IsAvailable:   true,
		Image:         &image,
		CategoryName:  &category,
		Metadata:      gModel.NewMetadata("admin-1", timezone.Now()),
	}
}

func TestServiceService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Service, error) {
			assert.Equal(t, "services.created_at", params.SortBy)
			assert.Len(t, filter.Filters, 2)

			return []model.Service{sampleService("service-1")}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"},
		dto.ListFilter{CategoryID: "category-1", AvailableOnly: true})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 1, res.TotalPage)
	require.NotNil(t, res.Services[0].Category)
	assert.Equal(t, "Weddings", res.Services[0].Category.Name)
	assert.Equal(t, "1000.00", res.Services[0].Price)
}

func TestServiceService_Get(t *testing.T) {
	tests := []struct {
		name     string
		mockRes  model.Service
		mockErr  error
		wantCode int
	}{
		{name: "found", mockRes: sampleService("service-1")},
		{name: "missing", mockRes: model.Service{}, wantCode: http.StatusNotFound},
		{name: "repository error", mockErr: errors.New("database error"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.mockRes, tt.mockErr)

			res, err := f.svc.Get(context.Background(), "service-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "service-1", res.ID)
			assert.Equal(t, []string{"Edited photos", "Online gallery"}, res.Inclusions)
		})
	}
}

func TestServiceService_Create(t *testing.T) {
	price := decimal.RequireFromString("1000")
	req := dto.CreateServiceRequest{
		CategoryID:    "category-1",
		Name:          "Full Day Wedding",
		Description:   "Ceremony and reception coverage",
		Price:         &price,
		DurationHours: 8,
	}

	tests := []struct {
		name      string
		actor     principal.Principal
		setupMock func(repo *offeringMocks.MockService)
		wantCode  int
	}{
		{
			name:      "customer is forbidden",
			actor:     customer,
			setupMock: func(_ *offeringMocks.MockService) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:  "unknown category",
			actor: admin,
			setupMock: func(repo *offeringMocks.MockService) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "duplicate slug",
			actor: admin,
			setupMock: func(repo *offeringMocks.MockService) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintSlugKey})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "created with derived slug and defaults",
			actor: admin,
			setupMock: func(repo *offeringMocks.MockService) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, mod model.Service) error {
					assert.Equal(t, "full-day-wedding", mod.Slug)
					assert.True(t, mod.IsAvailable)
					assert.NotNil(t, mod.Inclusions)
					assert.Equal(t, "admin-1", mod.CreatedBy)

					return nil
				})
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.repo)

			res, err := f.svc.Create(context.Background(), tt.actor, req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "service-1", res.ID)
		})
	}
}

func TestServiceService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(context.Background(), admin, "service-1", dto.UpdateServiceRequest{})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("renaming refreshes the slug", func(t *testing.T) {
		f := newFixture(t)
		price := decimal.RequireFromString("1250.555")

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil).Times(2)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "half-day-wedding", fields[model.FieldSlug])
				assert.Equal(t, "1250.56", fields[model.FieldPrice].(*decimal.Decimal).StringFixed(2))
				assert.NotContains(t, fields, model.FieldDurationHours)

				return nil
			})

		_, err := f.svc.Update(context.Background(), admin, "service-1", dto.UpdateServiceRequest{Name: "Half Day Wedding", Price: &price})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})
}

func TestServiceService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "missing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "referenced by bookings",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "deleted with its image",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.studio.test/services/old.jpg").Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), admin, "service-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestServiceService_UploadImage(t *testing.T) {
	header := &multipart.FileHeader{Filename: "cover.jpg"}
	newURL := "https://cdn.studio.test/services/new.jpg"

	t.Run("replaces the previous image", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil).Times(2)
		f.s3.EXPECT().Upload(gomock.Any(), constant.DirectoryServices, gomock.Any(), header).Return(newURL, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, newURL, fields[model.FieldImage])

				return nil
			})
		f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.studio.test/services/old.jpg").Return(nil)

		_, err := f.svc.UploadImage(context.Background(), admin, "service-1", gDto.UploadImageRequest{Image: header})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("upload failure leaves the row untouched", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleService("service-1"), nil)
		f.s3.EXPECT().Upload(gomock.Any(), constant.DirectoryServices, gomock.Any(), header).Return("", errors.New("s3 down"))

		_, err := f.svc.UploadImage(context.Background(), admin, "service-1", gDto.UploadImageRequest{Image: header})

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
