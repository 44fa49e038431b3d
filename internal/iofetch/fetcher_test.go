package iofetch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/internal/iofs"
	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLedger keeps fetch rows in memory so fetcher behavior can be
// tested without PostgreSQL.
type memLedger struct {
	rows []*schema.Fetch
}

func (m *memLedger) RecordFetch(
	_ context.Context, f *schema.Fetch,
) (int64, error) {
	id := int64(len(m.rows) + 1)
	f.ID = id
	m.rows = append(m.rows, f)
	return id, nil
}

func (m *memLedger) GetFetch(
	_ context.Context, id int64,
) (*schema.Fetch, error) {
	for _, f := range m.rows {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, iofetch.NotFoundError(id)
}

func (m *memLedger) LatestSuccess(
	_ context.Context, url string,
) (*schema.Fetch, error) {
	for i := len(m.rows) - 1; i >= 0; i-- {
		f := m.rows[i]
		if f.URL == url && f.HTTPStatus.Int32 == 200 && f.Body.String != "" {
			return f, nil
		}
	}
	return nil, nil
}

var _ pipeline.Ledger = (*memLedger)(nil)

func newTestFetcher(t *testing.T) (pipeline.Fetcher, *memLedger) {
	t.Helper()

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	ledger := &memLedger{}
	cfg := config.New()
	f := iofetch.NewWithClient(client, &cfg.Fetch, ledger, testRegistry(t))
	return f, ledger
}

func TestFetchChecklist(t *testing.T) {
	f, ledger := newTestFetcher(t)

	csv := `"Symbol","Synonym Symbol","Scientific Name with Author","State Common Name","Family"` +
		"\n" + `"ACRU","","Acer rubrum L.","red maple","Aceraceae"` + "\n"
	httpmock.RegisterResponder("GET",
		"https://plants.sc.egov.usda.gov/DocumentLibrary/Txt/NCplants_NRCS_csv.txt",
		httpmock.NewStringResponder(http.StatusOK, csv))

	id, err := f.FetchChecklist(context.Background(), "NC")
	require.NoError(t, err)
	require.Len(t, ledger.rows, 1)

	row := ledger.rows[0]
	assert.Equal(t, id, row.ID)
	assert.Equal(t, "NC", row.StateCode.String)
	assert.Equal(t, int32(200), row.HTTPStatus.Int32)
	assert.Equal(t, csv, row.Body.String)
	assert.False(t, row.Error.Valid)
	assert.False(t, row.FetchedAt.IsZero())
}

func TestFetchChecklistUnknownState(t *testing.T) {
	f, ledger := newTestFetcher(t)

	_, err := f.FetchChecklist(context.Background(), "ZZ")
	require.Error(t, err)
	// nothing to record: the request was never made
	assert.Empty(t, ledger.rows)
}

func TestFetchChecklistHTTPError(t *testing.T) {
	f, ledger := newTestFetcher(t)

	httpmock.RegisterResponder("GET",
		"https://plants.sc.egov.usda.gov/DocumentLibrary/Txt/NCplants_NRCS_csv.txt",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	id, err := f.FetchChecklist(context.Background(), "NC")
	require.Error(t, err)

	// the failed attempt is still recorded with its status and body
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, id, ledger.rows[0].ID)
	assert.Equal(t, int32(404), ledger.rows[0].HTTPStatus.Int32)
	assert.Equal(t, "not found", ledger.rows[0].Body.String)
}

func TestFetchChecklistTransportError(t *testing.T) {
	f, ledger := newTestFetcher(t)

	httpmock.RegisterResponder("GET",
		"https://plants.sc.egov.usda.gov/DocumentLibrary/Txt/NCplants_NRCS_csv.txt",
		httpmock.NewErrorResponder(assert.AnError))

	_, err := f.FetchChecklist(context.Background(), "NC")
	require.Error(t, err)

	// transport failure is recorded without status
	require.Len(t, ledger.rows, 1)
	assert.False(t, ledger.rows[0].HTTPStatus.Valid)
	assert.True(t, ledger.rows[0].Error.Valid)
}

func TestFetchPage(t *testing.T) {
	f, ledger := newTestFetcher(t)

	httpmock.RegisterResponder("GET",
		"https://plants.usda.gov/plant-profile/ACRU/characteristics",
		httpmock.NewStringResponder(http.StatusOK, "<html></html>"))

	id, err := f.FetchPage(context.Background(), "acru", "characteristics")
	require.NoError(t, err)

	require.Len(t, ledger.rows, 1)
	row := ledger.rows[0]
	assert.Equal(t, id, row.ID)
	// page fetches carry no state
	assert.False(t, row.StateCode.Valid)
	assert.Equal(t,
		"https://plants.usda.gov/plant-profile/ACRU/characteristics",
		row.URL)
}

func TestFetchPageBadType(t *testing.T) {
	f, ledger := newTestFetcher(t)

	_, err := f.FetchPage(context.Background(), "ACRU", "gallery")
	require.Error(t, err)
	assert.Empty(t, ledger.rows)
}

func TestLatestSuccessPicksNewest(t *testing.T) {
	f, ledger := newTestFetcher(t)
	ctx := context.Background()

	url := "https://plants.sc.egov.usda.gov/DocumentLibrary/Txt/NCplants_NRCS_csv.txt"
	httpmock.RegisterResponder("GET", url,
		httpmock.NewStringResponder(http.StatusOK, "first"))
	_, err := f.FetchChecklist(ctx, "NC")
	require.NoError(t, err)

	httpmock.RegisterResponder("GET", url,
		httpmock.NewStringResponder(http.StatusOK, "second"))
	_, err = f.FetchChecklist(ctx, "NC")
	require.NoError(t, err)

	latest, err := ledger.LatestSuccess(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "second", latest.Body.String)
}

func testRegistry(t *testing.T) *states.Registry {
	t.Helper()
	reg, err := states.New([]byte(iofs.StatesYAML))
	require.NoError(t, err)
	return reg
}
