package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roloapp/rolo-server/internal/selection"
	"github.com/roloapp/rolo-server/internal/store/sqlite"
)

// testServices bundles the wired services for a test against a temp store.
type testServices struct {
	store     *sqlite.Store
	tags      *TagService
	people    *PersonService
	selection *SelectionService
	generate  *GenerateService
	bulk      *BulkService
	importer  *ImportService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sel := selection.NewManager()
	tags := NewTagService(s, logger)
	generate := NewGenerateService(s, sel, logger)

	return &testServices{
		store:     s,
		tags:      tags,
		people:    NewPersonService(s, tags, logger),
		selection: NewSelectionService(s, sel, generate, logger),
		generate:  generate,
		bulk:      NewBulkService(s, tags, sel, logger),
		importer:  NewImportService(s, logger),
	}
}
