package main

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/Don-Green-Here/npdb/internal/iocanon"
	"github.com/Don-Green-Here/npdb/internal/iodb"
	"github.com/Don-Green-Here/npdb/internal/ioexport"
	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/internal/iofs"
	"github.com/Don-Green-Here/npdb/internal/ioindex"
	"github.com/Don-Green-Here/npdb/internal/ioingest"
	"github.com/Don-Green-Here/npdb/internal/ioschema"
	"github.com/Don-Green-Here/npdb/internal/iotesting"
	"github.com/Don-Green-Here/npdb/internal/iotraits"
	"github.com/Don-Green-Here/npdb/pkg/parserpool"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Note: This is an integration test that requires PostgreSQL.
// Skip with: go test -short

const ncChecklistCSV = `"Symbol","Synonym Symbol","Scientific Name with Author","State Common Name","Family"
"ACRU","","Acer rubrum L.","red maple","Aceraceae"
"ACRU","ACRUD","Acer rubrum L. var. drummondii","Drummond's maple","Aceraceae"
"PTAQ","","Pteridium aquilinum (L.) Kuhn","western brackenfern","Dennstaedtiaceae"
`

const acruProfileHTML = `
<html><body>
<table>
  <tr><td>Shade Tolerance</td><td>Tolerant</td></tr>
  <tr><td>Bloom Period</td><td>Spring</td></tr>
  <tr><td>Flowers Conspicuous</td><td>Yes</td></tr>
</table>
<h2>General Information</h2>
<dl>
  <dt>Duration</dt><dd>Perennial</dd>
  <dt>Growth Habits</dt><dd>Tree</dd>
</dl>
</body></html>`

const acruCharacteristicsHTML = `
<html><body>
<h2>Growth Requirements</h2>
<table>
  <tr><th>Moisture Use</th><td>Medium</td></tr>
</table>
</body></html>`

const emptyPageHTML = `<html><body><p>no data</p></body></html>`

// TestPipeline_E2E drives the whole pipeline for one state:
// fetch -> parse -> canonicalize -> scrape -> normalize -> index ->
// search -> export, all against a mocked USDA and a real database.
func TestPipeline_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	cfg.JobsNumber = 2

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	require.NoError(t, op.DropAllTables(ctx))
	reg, err := states.New([]byte(iofs.StatesYAML))
	require.NoError(t, err)
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg, reg))

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET",
		"https://plants.sc.egov.usda.gov/DocumentLibrary/Txt/NCplants_NRCS_csv.txt",
		httpmock.NewStringResponder(200, ncChecklistCSV))
	httpmock.RegisterResponder("GET",
		"https://plants.usda.gov/plant-profile/ACRU",
		httpmock.NewStringResponder(200, acruProfileHTML))
	httpmock.RegisterResponder("GET",
		"https://plants.usda.gov/plant-profile/ACRU/characteristics",
		httpmock.NewStringResponder(200, acruCharacteristicsHTML))
	httpmock.RegisterResponder("GET",
		"https://plants.usda.gov/plant-profile/PTAQ",
		httpmock.NewStringResponder(200, emptyPageHTML))
	httpmock.RegisterResponder("GET",
		"https://plants.usda.gov/plant-profile/PTAQ/characteristics",
		httpmock.NewStringResponder(200, emptyPageHTML))

	ledger := iofetch.NewLedger(op)
	fetcher := iofetch.NewWithClient(client, &cfg.Fetch, ledger, reg)

	// fetch
	fetchID, err := fetcher.FetchChecklist(ctx, "NC")
	require.NoError(t, err, "Should download the state checklist")

	// parse
	batch, err := ioingest.New(op, ledger, cfg).ParseFetch(ctx, fetchID)
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Accepted, "Should store all checklist rows")

	// canonicalize
	pool := parserpool.NewPool(2)
	defer pool.Close()
	canon := iocanon.New(op, pool)
	canonRes, err := canon.CanonicalizeFetch(ctx, fetchID)
	require.NoError(t, err)
	assert.Equal(t, 2, canonRes.Created,
		"Two symbols merge out of three raw rows")
	assert.Equal(t, 1, canonRes.Synonyms)

	plant, err := canon.GetCanonical(ctx, "ACRU")
	require.NoError(t, err)
	require.NotNil(t, plant)
	assert.Equal(t, "Acer rubrum", plant.CanonicalName.String,
		"gnparser should strip the author")

	// scrape
	tm := iotraits.New(op, fetcher, ledger, cfg)
	scrapeRes, err := tm.ScrapeState(ctx, "NC", false)
	require.NoError(t, err)
	assert.Equal(t, 4, scrapeRes.Fetched)
	assert.Equal(t, 2, scrapeRes.NoData, "Both PTAQ pages are empty")
	assert.Equal(t, 6, scrapeRes.KVs)

	// normalize
	normRes, err := tm.NormalizeState(ctx, "NC")
	require.NoError(t, err)
	assert.Equal(t, 2, normRes.Symbols)
	assert.Equal(t, 6, normRes.Traits)

	nts, err := tm.GetAllNormalized(ctx, "ACRU")
	require.NoError(t, err)
	byKey := make(map[string]string)
	for _, nt := range nts {
		byKey[nt.TraitKey] = nt.TraitValue
	}
	assert.Equal(t, "Tolerant", byKey["shade_tolerance"])
	assert.Equal(t, "Medium", byKey["moisture_use"])
	assert.Equal(t, "true", byKey["flower_conspicuous"])

	// index
	idx := ioindex.New(op, cfg)
	idxRes, err := idx.RebuildState(ctx, "NC")
	require.NoError(t, err)
	assert.Equal(t, 2, idxRes.Indexed)
	assert.Equal(t, 0, idxRes.Failed)

	// search
	rows, err := idx.Search(ctx, pipeline.SearchQuery{
		Filters: map[string]string{
			"state":             "NC",
			"is_shade_tolerant": "yes",
			"duration":          "Perennial",
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACRU", rows[0].Symbol)
	assert.Equal(t, "red maple", rows[0].PreferredCommonName.String)

	// export
	path := filepath.Join(t.TempDir(), "plants.sqlite")
	expRes, err := ioexport.New(op).Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, expRes.Tables["canonical_plants"])

	lite, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer lite.Close()
	var tolerant string
	err = lite.QueryRowContext(ctx, `
SELECT shade_tolerance FROM plant_filter_indices
WHERE symbol = 'ACRU'`).Scan(&tolerant)
	require.NoError(t, err)
	assert.Equal(t, "Tolerant", tolerant)

	// re-running later stages converges instead of duplicating
	batch2, err := ioingest.New(op, ledger, cfg).ParseFetch(ctx, fetchID)
	require.NoError(t, err)
	assert.Equal(t, 0, batch2.Accepted)
	assert.Equal(t, 3, batch2.Skipped)

	scrape2, err := tm.ScrapeState(ctx, "NC", false)
	require.NoError(t, err)
	assert.Equal(t, 0, scrape2.Fetched)
	assert.Equal(t, 4, scrape2.SkippedDone)
}
