package telemetry

import (
	"context"
	"testing"

	"token-auth/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), "token-auth", utils.TelemetryConfig{}, zap.NewNop())
	assert.NoError(t, shutdown(context.Background()))
}
