// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/ald-corpus/internal/httputil"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

// elsevierAPIBase is the publisher full-text endpoint used for
// availability probes. Declared as a var so tests can substitute an
// httptest server.
var elsevierAPIBase = "https://api.elsevier.com/content/article/doi/"

// CheckAvailability probes the Elsevier article API for full-text access
// to doi. It reports (true, nil) when the API serves the article and
// (false, nil) when access is denied or the DOI is unknown there. Any
// other failure, including retry exhaustion, comes back as an error.
func CheckAvailability(ctx context.Context, client *http.Client, doi, apiKey string, cfg types.AcquisitionConfig) (bool, error) {
	header := requestHeader(cfg)
	if apiKey != "" {
		header.Set("X-ELS-APIKey", apiKey)
	}

	probeURL := elsevierAPIBase + doi + "?view=FULL"
	_, err := httputil.Fetch(ctx, client, probeURL, header, retryPolicy(cfg))
	if err == nil {
		return true, nil
	}

	var status *httputil.StatusError
	if errors.As(err, &status) {
		switch status.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return false, nil
		}
	}
	return false, fmt.Errorf("availability check for %s: %w", doi, err)
}
