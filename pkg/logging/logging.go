package logging

import "go.uber.org/zap"

// Common structured log field names.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldType      = "type"
	FieldPort      = "port"
	FieldSignal    = "signal"
	FieldEndpoint  = "endpoint"
	FieldMovieID   = "movieId"
	FieldUserID    = "userId"
	FieldCommentID = "commentId"
	FieldRequestID = "requestId"
)

// New builds the root logger for a service.
func New(serviceName string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String(FieldService, serviceName)), nil
}
