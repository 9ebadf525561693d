package catalog

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultVizierURL is the VizieR tab-separated-values endpoint.
const DefaultVizierURL = "https://vizier.cds.unistra.fr/viz-bin/asu-tsv"

// hip2Catalog is the van Leeuwen (2007) Hipparcos re-reduction.
const hip2Catalog = "I/311/hip2"

// hip2Columns is the fixed column set requested from the catalog, in order.
var hip2Columns = []string{
	"RArad", "e_RArad", "DErad", "e_DErad", "Plx", "e_Plx",
	"pmRA", "e_pmRA", "pmDE", "e_pmDE",
}

// VizierClient fetches astrometric solutions from the VizieR service.
type VizierClient struct {
	baseURL string
	client  *http.Client
}

// NewVizierClient creates a client for the given endpoint. An empty endpoint
// selects DefaultVizierURL.
func NewVizierClient(baseURL string) *VizierClient {
	if baseURL == "" {
		baseURL = DefaultVizierURL
	}
	return &VizierClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Query fetches the hip2 solution for one HIP number.
func (c *VizierClient) Query(ctx context.Context, hip string) (*Solution, error) {
	q := url.Values{}
	q.Set("-source", hip2Catalog)
	q.Set("-out", strings.Join(hip2Columns, ","))
	q.Set("-out.max", "1")
	q.Set("HIP", "="+strings.TrimLeft(hip, "0"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build VizieR request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("VizieR query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("VizieR query returned status %d", resp.StatusCode)
	}

	sol, err := parseTSVResponse(resp, hip)
	if err != nil {
		return nil, err
	}
	if err := sol.Validate(); err != nil {
		return nil, err
	}
	return sol, nil
}

// parseTSVResponse extracts the first data row from a VizieR TSV response.
// VizieR prefixes metadata with '#' and emits a column-name row followed by
// a dashed separator row before the data.
func parseTSVResponse(resp *http.Response, hip string) (*Solution, error) {
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Skip the header and separator rows.
		if strings.HasPrefix(line, "RArad") || strings.HasPrefix(line, "---") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < len(hip2Columns) {
			return nil, fmt.Errorf("VizieR row for HIP %s has %d columns, want %d", hip, len(fields), len(hip2Columns))
		}

		vals := make([]float64, len(hip2Columns))
		for i := range hip2Columns {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("VizieR column %s for HIP %s: %w", hip2Columns[i], hip, err)
			}
			vals[i] = v
		}

		return &Solution{
			HIP:      hip,
			RA:       vals[0],
			RAErr:    vals[1],
			Dec:      vals[2],
			DecErr:   vals[3],
			Plx:      vals[4],
			PlxErr:   vals[5],
			PMRA:     vals[6],
			PMRAErr:  vals[7],
			PMDec:    vals[8],
			PMDecErr: vals[9],
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read VizieR response: %w", err)
	}
	return nil, fmt.Errorf("HIP %s not found in %s", hip, hip2Catalog)
}
