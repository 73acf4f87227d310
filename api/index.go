package handler

import (
	"net/http"
	"sync"

	"studio/config"
	"studio/di"
	"studio/shared/logger"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the serverless entrypoint. The router is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		handler = di.InitializeApp().HTTP.Adaptor()
	})

	handler(w, r)
}
