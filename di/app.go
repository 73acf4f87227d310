package di

import (
	"studio/infras/kafka"
	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/transport/http"
	"studio/transport/scheduler"
)

// App bundles the long running parts of the API process.
type App struct {
	HTTP      *http.HTTP
	Scheduler *scheduler.Scheduler
	Otel      otel.Otel
	Publisher kafka.Publisher
	Database  *postgres.Connection
}
