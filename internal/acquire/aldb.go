// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/ald-corpus/internal/httputil"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

// aldbAPIBase is the public ALD process database endpoint. Declared as a
// var so tests can substitute an httptest server.
var aldbAPIBase = "https://www.atomiclimits.com/alddatabase/api/processes.php"

// ALD database API JSON structures. The payload carries the literature
// references and the deposition processes that cite them, joined by
// reference id.
type aldbResponse struct {
	References []aldbReference `json:"references"`
	Processes  []aldbProcess   `json:"processes"`
}

type aldbReference struct {
	ID  string `json:"reference_id"`
	DOI string `json:"reference_doi"`
}

type aldbProcess struct {
	ReferenceID string `json:"reference_id"`
	Material    string `json:"material"`
	Reactant    string `json:"reactant"`
}

// FetchWorkList pulls the published process table and flattens it into
// acquisition targets. References without a DOI are dropped, and a DOI
// cited more than once yields a single target, annotated with the
// material and reactant of the first process that names it. Order
// follows the reference listing, so work lists are stable between runs.
func FetchWorkList(ctx context.Context, client *http.Client, cfg types.AcquisitionConfig) ([]types.Document, error) {
	res, err := httputil.Fetch(ctx, client, aldbAPIBase, requestHeader(cfg), retryPolicy(cfg))
	if err != nil {
		return nil, fmt.Errorf("fetching process database: %w", err)
	}

	var payload aldbResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, fmt.Errorf("parsing process database response: %w", err)
	}

	processByRef := make(map[string]aldbProcess, len(payload.Processes))
	for _, p := range payload.Processes {
		if _, ok := processByRef[p.ReferenceID]; !ok {
			processByRef[p.ReferenceID] = p
		}
	}

	seen := make(map[string]bool)
	var targets []types.Document
	for _, ref := range payload.References {
		doi := strings.TrimSpace(ref.DOI)
		if doi == "" || seen[doi] {
			continue
		}
		seen[doi] = true

		proc := processByRef[ref.ID]
		targets = append(targets, types.Document{
			DOI:      doi,
			Slug:     Slug(doi),
			Material: proc.Material,
			Reactant: proc.Reactant,
		})
	}
	return targets, nil
}
