package settings

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, rec *domain.PropertySettings, overlay string) (*Store, *memstore.Settings, *memstore.Overlay) {
	t.Helper()
	server := memstore.NewSettings(rec)
	local := memstore.NewOverlay(overlay)
	st := NewStore(server, local, nil)
	require.NoError(t, st.Load(context.Background()))
	return st, server, local
}

func TestStoreLoad(t *testing.T) {
	st, _, _ := newTestStore(t, &domain.PropertySettings{HouseName: str("Green Villa")}, `{"pageText":{"footer":"Thanks"}}`)

	cur := st.Current()
	assert.Equal(t, "Green Villa", cur.HouseName)
	assert.Equal(t, "Thanks", cur.PageText.Footer)
	assert.Contains(t, st.Overlay(), "pageText")
}

func TestStoreLoadIgnoresCorruptOverlay(t *testing.T) {
	st, _, _ := newTestStore(t, nil, `{not json`)
	assert.Equal(t, Defaults(), st.Current())
}

func TestCommitLocalFieldNeverTouchesServer(t *testing.T) {
	st, server, local := newTestStore(t, nil, "")

	got, err := st.Commit(context.Background(), "tabLabels", json.RawMessage(`{"rent":"Collections"}`))
	require.NoError(t, err)

	assert.Equal(t, "Collections", got.TabLabels.Rent)
	assert.Equal(t, Defaults().TabLabels.Tenants, got.TabLabels.Tenants)
	assert.Equal(t, 0, server.Patches)
	assert.Equal(t, 1, local.Saves)
	assert.Contains(t, local.Blob(), `"Collections"`)
}

func TestCommitServerFieldNeverWritesOverlay(t *testing.T) {
	st, server, local := newTestStore(t, nil, "")

	got, err := st.Commit(context.Background(), "houseName", json.RawMessage(`"Blue House"`))
	require.NoError(t, err)

	assert.Equal(t, "Blue House", got.HouseName)
	assert.Equal(t, 1, server.Patches)
	assert.Equal(t, 0, local.Saves)

	rec, err := server.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec.HouseName)
	assert.Equal(t, "Blue House", *rec.HouseName)
	assert.Nil(t, rec.ThemePrimary)
}

func TestCommitServerFieldDropsStaleOverlayKey(t *testing.T) {
	st, _, local := newTestStore(t, nil, `{"houseName":"Old Local Name","tabLabels":{"rent":"Collections"}}`)
	require.Equal(t, "Old Local Name", st.Current().HouseName)

	got, err := st.Commit(context.Background(), "houseName", json.RawMessage(`"Blue House"`))
	require.NoError(t, err)

	assert.Equal(t, "Blue House", got.HouseName)
	assert.Equal(t, "Collections", got.TabLabels.Rent)
	assert.NotContains(t, st.Overlay(), "houseName")
	assert.NotContains(t, local.Blob(), "Old Local Name")
}

func TestCommitMergesPartialObject(t *testing.T) {
	st, _, _ := newTestStore(t, &domain.PropertySettings{ContactPhone: str("111")}, "")

	got, err := st.Commit(context.Background(), "contact", json.RawMessage(`{"email":"owner@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "111", got.Contact.Phone)
	assert.Equal(t, "owner@example.com", got.Contact.Email)
}

func TestCommitReplacesArray(t *testing.T) {
	st, _, _ := newTestStore(t, nil, "")

	got, err := st.Commit(context.Background(), "documentCategories", json.RawMessage(`["Lease","Receipts"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Lease", "Receipts"}, got.DocumentCategories)
}

func TestCommitRejectsBadInput(t *testing.T) {
	st, server, local := newTestStore(t, nil, "")

	cases := map[string]json.RawMessage{
		"nope":             json.RawMessage(`"x"`),
		"houseName":        json.RawMessage(`42`),
		"contact":          json.RawMessage(`{"fax":"1"}`),
		"whatsappReminder": json.RawMessage(`{"daysBefore":"soon"}`),
	}
	for field, value := range cases {
		_, err := st.Commit(context.Background(), field, value)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "field %s: %v", field, err)
		assert.Contains(t, verr.Fields, field)
	}
	assert.Equal(t, 0, server.Patches)
	assert.Equal(t, 0, local.Saves)
	assert.Equal(t, Defaults(), st.Current())
}

func TestCommitServerFailureKeepsView(t *testing.T) {
	st, server, _ := newTestStore(t, nil, "")
	server.Err = errors.New("connection refused")

	_, err := st.Commit(context.Background(), "houseName", json.RawMessage(`"Blue House"`))
	require.Error(t, err)
	assert.Equal(t, Defaults().HouseName, st.Current().HouseName)
}

func TestFileOverlayKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "local.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"other.key":{"a":1}}`), 0o644))

	f := &FileOverlay{Path: path}
	blob, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, blob)

	require.NoError(t, f.Save(context.Background(), []byte(`{"tabLabels":{"rent":"Collections"}}`)))
	blob, err = f.Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tabLabels":{"rent":"Collections"}}`, string(blob))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "other.key")
}

func TestFileOverlayMissingFile(t *testing.T) {
	f := &FileOverlay{Path: filepath.Join(t.TempDir(), "absent.json")}
	blob, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestFileOverlayCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json{`), 0o644))
	f := &FileOverlay{Path: path}

	blob, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)

	st := NewStore(memstore.NewSettings(nil), f, nil)
	require.NoError(t, st.Load(context.Background()))
	_, err = st.Commit(context.Background(), "tabLabels", json.RawMessage(`{"rent":"Collections"}`))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
	blob, err = f.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(blob), "Collections")
}
