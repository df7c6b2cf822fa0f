package di

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"dhammakb/application/navigation"
	"dhammakb/application/pipeline"
	"dhammakb/application/ports"
	"dhammakb/application/validation"
	"dhammakb/infrastructure/config"
	"dhammakb/infrastructure/essays"
	"dhammakb/infrastructure/persistence/dynamodb"
	"dhammakb/interfaces/http/rest"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideGraphStore creates the DynamoDB-backed graph store
func ProvideGraphStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.GraphStore {
	return dynamodb.NewStore(
		client,
		cfg.ListsTable,
		cfg.DhammasTable,
		cfg.ParentIndexName,
		logger,
	)
}

// ProvideEssayLoader creates the directory-backed essay loader
func ProvideEssayLoader(cfg *config.Config) *essays.DirLoader {
	return essays.NewDirLoader(cfg.EssaysDir)
}

// ProvideRunner creates the seeding pipeline runner
func ProvideRunner(store ports.GraphStore, loader *essays.DirLoader, logger *zap.Logger) *pipeline.Runner {
	return pipeline.NewRunner(store, loader, logger)
}

// ProvideValidator creates the integrity validator
func ProvideValidator(store ports.GraphStore, logger *zap.Logger) *validation.Validator {
	return validation.New(store, logger)
}

// ProvideNavigator creates the navigation engine
func ProvideNavigator(store ports.GraphStore, logger *zap.Logger) *navigation.Engine {
	return navigation.NewEngine(store, logger)
}

// ProvideHandler builds the HTTP handler
func ProvideHandler(store ports.GraphStore, navigator *navigation.Engine, cfg *config.Config, logger *zap.Logger) http.Handler {
	return rest.NewRouter(store, navigator, logger, cfg.EnableCORS).Setup()
}

// ProvideEssayGenerator creates the essay generator
func ProvideEssayGenerator(cfg *config.Config, loader *essays.DirLoader, logger *zap.Logger) *essays.Generator {
	return essays.NewGenerator(cfg.AnthropicAPIKey, cfg.EssayModel, loader, logger)
}
