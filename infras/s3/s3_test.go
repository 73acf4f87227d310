package s3_test

import (
	"testing"

	"studio/config"
	"studio/infras/otel/mocks"
	"studio/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestS3_ObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "studio"
	cfg.External.S3.PublicDomain = "https://cdn.example.com"
	cfg.External.S3.APIEndpoint = "https://storage.example.com"

	store := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.example.com/portfolios/a.jpg", want: "portfolios/a.jpg"},
		{name: "api endpoint", url: "https://storage.example.com/studio/services/b.png", want: "services/b.png"},
		{name: "foreign url", url: "https://elsewhere.example.com/c.jpg", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.ObjectKeyFromURL(tt.url))
		})
	}
}
