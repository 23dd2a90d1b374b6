package holdings

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aristath/fundlens/internal/modules/columns"
	testingpkg "github.com/aristath/fundlens/internal/testing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *UploadRepository) {
	t.Helper()

	db, cleanup := testingpkg.NewTestDB(t, "holdings")
	t.Cleanup(cleanup)

	repo := NewUploadRepository(db.Conn(), zerolog.Nop())
	return NewService(repo, nil, zerolog.Nop()), repo
}

func TestService_Ingest(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.Ingest("abc-flexicap-jan24.csv", strings.NewReader(testingpkg.NewDisclosureCSV()), "")
	require.NoError(t, err)

	_, err = uuid.Parse(result.UploadID)
	require.NoError(t, err)
	assert.Equal(t, "abc-flexicap-jan24.csv", result.Filename)
	assert.Equal(t, 3, result.Summary.Count)
	assert.Equal(t, "20.87", result.Summary.TotalWeight.String())

	stored, err := service.Get(result.UploadID)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, result.UploadID, decoded["upload_id"])
	assert.Len(t, decoded["holdings"], 3)
	assert.Len(t, decoded["mapping"], 3)

	recent, err := service.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, result.UploadID, recent[0].ID)
	assert.Equal(t, 3, recent[0].HoldingsCount)
	assert.Equal(t, "20.87", recent[0].TotalWeight.String())
}

func TestService_IngestErrors(t *testing.T) {
	service, repo := newTestService(t)

	_, err := service.Ingest("notes.txt", strings.NewReader("hello"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = service.Ingest("empty.csv", strings.NewReader("Scheme,Quantity\n"), "")
	assert.ErrorIs(t, err, ErrNoHeaderRow)

	uploads, err := repo.ListRecent(10)
	require.NoError(t, err)
	assert.Empty(t, uploads, "failed ingests are not stored")
}

func TestService_GetUnknown(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Get(uuid.New().String())
	assert.ErrorIs(t, err, ErrUploadNotFound)

	_, err = service.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestService_WithoutRepository(t *testing.T) {
	service := NewService(nil, nil, zerolog.Nop())

	result, err := service.Ingest("x.csv", strings.NewReader("ISIN,Name\nINE002A01018,Reliance\n"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Count)

	_, err = service.Get(result.UploadID)
	assert.ErrorIs(t, err, ErrUploadNotFound)

	recent, err := service.Recent(5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestService_Purge(t *testing.T) {
	service, repo := newTestService(t)

	old := Result{UploadID: uuid.New().String(), Filename: "old.csv", CreatedAt: time.Now().Add(-90 * 24 * time.Hour)}
	require.NoError(t, repo.Save(old))

	fresh, err := service.Ingest("new.csv", strings.NewReader(testingpkg.NewDisclosureCSV()), "")
	require.NoError(t, err)

	removed, err := service.Purge(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	recent, err := repo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, fresh.UploadID, recent[0].ID)
}

func TestService_IngestUsesConfiguredNormalizer(t *testing.T) {
	csv := "Security Code,Name,% to AUM\nINE002A01018,Reliance,4.5\n"

	_, err := NewService(nil, nil, zerolog.Nop()).Ingest("codes.csv", strings.NewReader(csv), "")
	assert.ErrorIs(t, err, ErrMissingIdentifierColumn)

	rules := append(columns.DefaultRules(), columns.Rule{
		Name:  "security-code-label",
		Field: columns.FieldIdentifier,
		Score: 50,
		Match: func(c string) bool { return c == "SECURITY CODE" },
	})
	service := NewService(nil, columns.NewNormalizer(rules...), zerolog.Nop())

	result, err := service.Ingest("codes.csv", strings.NewReader(csv), "")
	require.NoError(t, err)
	require.Len(t, result.Holdings, 1)
	assert.Equal(t, "INE002A01018", result.Holdings[0].ISIN)

	header, ok := result.Mapping.Header(columns.FieldIdentifier)
	require.True(t, ok)
	assert.Equal(t, "Security Code", header)
}
