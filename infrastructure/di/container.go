package di

import (
	"net/http"

	"go.uber.org/zap"

	"dhammakb/application/navigation"
	"dhammakb/application/pipeline"
	"dhammakb/application/ports"
	"dhammakb/application/validation"
	"dhammakb/infrastructure/config"
	"dhammakb/infrastructure/essays"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          ports.GraphStore
	Runner         *pipeline.Runner
	Validator      *validation.Validator
	Navigator      *navigation.Engine
	EssayLoader    *essays.DirLoader
	EssayGenerator *essays.Generator
	Handler        http.Handler
}
