package infra

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	GOOGLE_METADATA_URL_PROJECT_ID = "http://metadata.google.internal/computeMetadata/v1/project/project-id"
	PROJECT_ID_KEY                 = "project_id"
)

// The project id does not change during the lifetime of the process
var PROJECT_ID_CACHE = expirable.NewLRU[string, string](1, nil, 0)

// GetProjectId reads the project id from the metadata server. It returns an empty string
// without error when the server cannot be reached, which is the case outside of GCP.
func GetProjectId(ctx context.Context) (string, error) {
	if projectId, exists := PROJECT_ID_CACHE.Get(PROJECT_ID_KEY); exists {
		return projectId, nil
	}

	var projectId string
	err := retry.Do(
		func() error {
			var err error
			projectId, err = getProjectIdFromMetadataServer(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.Delay(100*time.Millisecond),
	)
	if err != nil {
		return "", err
	}

	PROJECT_ID_CACHE.Add(PROJECT_ID_KEY, projectId)
	return projectId, nil
}

// ResolveDlpProjectId picks the project used by the detection provider: explicit
// configuration first, then the GCP project, then the metadata server.
func ResolveDlpProjectId(ctx context.Context, dlpConfig DlpConfig, gcpConfig GcpConfig) string {
	if dlpConfig.ProjectId != "" {
		return dlpConfig.ProjectId
	}
	if gcpConfig.ProjectId != "" {
		return gcpConfig.ProjectId
	}
	projectId, err := GetProjectId(ctx)
	if err != nil {
		slog.WarnContext(ctx, "could not read the project id from the metadata server", "error", err.Error())
	}
	return projectId
}

func getProjectIdFromMetadataServer(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GOOGLE_METADATA_URL_PROJECT_ID, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Add("Metadata-Flavor", "Google")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// expected outside of a GCP VM, not worth retrying
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	return "", errors.Newf("unexpected status code from google cloud metadata server: %d", resp.StatusCode)
}
