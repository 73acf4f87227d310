package service_test

import (
	"context"
	"errors"
	"mime/multipart"
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
	portfolioMocks "studio/internal/domains/portfolio/mocks"
	"studio/internal/domains/portfolio/model"
	"studio/internal/domains/portfolio/model/dto"
	"studio/internal/domains/portfolio/service"
	cacheMocks "studio/shared/cache/mocks"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	gModel "studio/shared/model"
	"studio/shared/principal"
	"studio/shared/timezone"
)

const (
	oldImage = "https://cdn.studio.test/portfolios/old.jpg"
	newImage = "https://cdn.studio.test/portfolios/new.jpg"
)

var (
	admin    = principal.Principal{UserID: "admin-1", Role: constant.RoleAdmin}
	customer = principal.Principal{UserID: "user-1", Role: constant.RoleCustomer}
)

func newService(t *testing.T) (service.Portfolio, *portfolioMocks.MockPortfolio, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := portfolioMocks.NewMockPortfolio(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockS3), mockRepo, mockS3
}

func samplePortfolio(id string) model.Portfolio {
	category := "Portraits"

	return model.Portfolio{
		ID:           id,
		CategoryID:   "category-1",
		Title:        "Golden hour",
		Image:        oldImage,
		Featured:     true,
		CategoryName: &category,
		Metadata:     gModel.NewMetadata("admin-1", timezone.Now()),
	}
}

func TestPortfolioService_GetAll(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Portfolio, error) {
			assert.Equal(t, "portfolios.created_at", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)
			assert.Len(t, filter.Filters, 1)

			return []model.Portfolio{samplePortfolio("portfolio-1")}, nil
		})

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListFilter{FeaturedOnly: true})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Portfolios, 1)
	assert.Equal(t, "Portraits", res.Portfolios[0].Category.Name)
}

func TestPortfolioService_Create(t *testing.T) {
	header := &multipart.FileHeader{Filename: "golden.jpg"}
	req := dto.CreatePortfolioRequest{CategoryID: "category-1", Title: "Golden hour", Image: header}

	tests := []struct {
		name      string
		actor     principal.Principal
		setupMock func(repo *portfolioMocks.MockPortfolio, s3 *s3Mocks.MockS3)
		wantCode  int
	}{
		{
			name:      "customer is forbidden",
			actor:     customer,
			setupMock: func(_ *portfolioMocks.MockPortfolio, _ *s3Mocks.MockS3) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:  "upload failure",
			actor: admin,
			setupMock: func(_ *portfolioMocks.MockPortfolio, s3 *s3Mocks.MockS3) {
				s3.EXPECT().Upload(gomock.Any(), constant.DirectoryPortfolios, gomock.Any(), header).Return("", errors.New("s3 down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:  "unknown category removes the uploaded image",
			actor: admin,
			setupMock: func(repo *portfolioMocks.MockPortfolio, s3 *s3Mocks.MockS3) {
				s3.EXPECT().Upload(gomock.Any(), constant.DirectoryPortfolios, gomock.Any(), header).Return(newImage, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
				s3.EXPECT().DeleteByURL(gomock.Any(), newImage).Return(nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "created",
			actor: admin,
			setupMock: func(repo *portfolioMocks.MockPortfolio, s3 *s3Mocks.MockS3) {
				s3.EXPECT().Upload(gomock.Any(), constant.DirectoryPortfolios, gomock.Any(), header).Return(newImage, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, mod model.Portfolio) error {
					assert.Equal(t, newImage, mod.Image)

					return nil
				})
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePortfolio("portfolio-1"), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, s3 := newService(t)
			tt.setupMock(repo, s3)

			res, err := svc.Create(context.Background(), tt.actor, req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "portfolio-1", res.ID)
		})
	}
}

func TestPortfolioService_Update(t *testing.T) {
	t.Run("new image replaces the old one", func(t *testing.T) {
		svc, repo, s3 := newService(t)
		header := &multipart.FileHeader{Filename: "new.jpg"}

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePortfolio("portfolio-1"), nil).Times(2)
		s3.EXPECT().Upload(gomock.Any(), constant.DirectoryPortfolios, gomock.Any(), header).Return(newImage, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, newImage, fields[model.FieldImage])
				assert.Equal(t, "Blue hour", fields[model.FieldTitle])

				return nil
			})
		s3.EXPECT().DeleteByURL(gomock.Any(), oldImage).Return(nil)

		_, err := svc.Update(context.Background(), admin, "portfolio-1", dto.UpdatePortfolioRequest{Title: "Blue hour", Image: header})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("text only edit keeps the image", func(t *testing.T) {
		svc, repo, _ := newService(t)
		featured := false

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePortfolio("portfolio-1"), nil).Times(2)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldImage)

				return nil
			})

		_, err := svc.Update(context.Background(), admin, "portfolio-1", dto.UpdatePortfolioRequest{Featured: &featured})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("empty request", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Update(context.Background(), admin, "portfolio-1", dto.UpdatePortfolioRequest{})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestPortfolioService_Delete(t *testing.T) {
	t.Run("removes row and image", func(t *testing.T) {
		svc, repo, s3 := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePortfolio("portfolio-1"), nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		s3.EXPECT().DeleteByURL(gomock.Any(), oldImage).Return(nil)

		err := svc.Delete(context.Background(), admin, "portfolio-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Portfolio{}, nil)

		err := svc.Delete(context.Background(), admin, "portfolio-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
