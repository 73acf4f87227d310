package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/config"
	"studio/infras/otel/mocks"
	s3Mocks "studio/infras/s3/mocks"
	categoryMocks "studio/internal/domains/category/mocks"
	"studio/internal/domains/category/model"
	"studio/internal/domains/category/model/dto"
	"studio/internal/domains/category/service"
	offeringMocks "studio/internal/domains/offering/mocks"
	offeringModel "studio/internal/domains/offering/model"
	portfolioMocks "studio/internal/domains/portfolio/mocks"
	portfolioModel "studio/internal/domains/portfolio/model"
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
)

type fixture struct {
	svc        service.Category
	repo       *categoryMocks.MockCategory
	services   *offeringMocks.MockService
	portfolios *portfolioMocks.MockPortfolio
	s3         *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:       categoryMocks.NewMockCategory(ctrl),
		services:   offeringMocks.NewMockService(ctrl),
		portfolios: portfolioMocks.NewMockPortfolio(ctrl),
		s3:         s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, f.services, f.portfolios, cfg, mockCache, mocks.NewOtel(), f.s3)

	return f
}

func sampleCategory(id string) model.Category {
	image := "https://cdn.studio.test/categories/weddings.jpg"

	return model.Category{
		ID:       id,
		Name:     "Weddings",
		Slug:     "weddings",
		Image:    &image,
		Metadata: gModel.NewMetadata("admin-1", timezone.Now()),
	}
}

func TestCategoryService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Category{sampleCategory("category-1"), sampleCategory("category-2")}, nil)
	f.repo.EXPECT().Counts(gomock.Any(), []string{"category-1", "category-2"}).
		Return(map[string]model.Counts{"category-1": {CategoryID: "category-1", Services: 3, Portfolios: 5}}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Categories, 2)
	assert.Equal(t, 3, *res.Categories[0].ServicesCount)
	assert.Equal(t, 5, *res.Categories[0].PortfoliosCount)
	assert.Equal(t, 0, *res.Categories[1].ServicesCount)
}

func TestCategoryService_Get(t *testing.T) {
	t.Run("includes services and portfolios", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleCategory("category-1"), nil)
		f.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]offeringModel.Service{{ID: "service-1", CategoryID: "category-1"}}, nil)
		f.portfolios.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]portfolioModel.Portfolio{}, nil)

		res, err := f.svc.Get(context.Background(), "category-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		require.Len(t, res.Services, 1)
		assert.Empty(t, res.Portfolios)
		assert.Equal(t, 1, *res.ServicesCount)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		_, err := f.svc.Get(context.Background(), "category-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name      string
		actor     principal.Principal
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:      "customer is forbidden",
			actor:     customer,
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:  "duplicate name",
			actor: admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintSlugKey})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "created",
			actor: admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, mod model.Category) error {
					assert.Equal(t, "family-portraits", mod.Slug)

					return nil
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), tt.actor, dto.CreateCategoryRequest{Name: "Family Portraits"})

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "family-portraits", res.Slug)
			assert.Equal(t, 0, *res.ServicesCount)
		})
	}
}

func TestCategoryService_Update(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleCategory("category-1"), nil).Times(2)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "elopements", fields[model.FieldSlug])
			assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

			return nil
		})

	_, err := f.svc.Update(context.Background(), admin, "category-1", dto.UpdateCategoryRequest{Name: "Elopements"})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("restricted while in use", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleCategory("category-1"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		err := f.svc.Delete(context.Background(), admin, "category-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("deletes the image after the row", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleCategory("category-1"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.studio.test/categories/weddings.jpg").Return(nil)

		err := f.svc.Delete(context.Background(), admin, "category-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})
}
