package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDlpProjectId(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "dlp-project", ResolveDlpProjectId(ctx,
		DlpConfig{ProjectId: "dlp-project"}, GcpConfig{ProjectId: "gcp-project"}))
	assert.Equal(t, "gcp-project", ResolveDlpProjectId(ctx,
		DlpConfig{}, GcpConfig{ProjectId: "gcp-project"}))

	PROJECT_ID_CACHE.Add(PROJECT_ID_KEY, "metadata-project")
	defer PROJECT_ID_CACHE.Purge()
	assert.Equal(t, "metadata-project", ResolveDlpProjectId(ctx, DlpConfig{}, GcpConfig{}))
}
