package settings

import (
	"encoding/json"
	"reflect"
	"testing"

	"rentflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestReconcileDefaultsWhenEmpty(t *testing.T) {
	assert.Equal(t, Defaults(), Reconcile(nil, nil))
	assert.Equal(t, Defaults(), Reconcile(nil, Overlay{}))
}

func TestReconcileNullColumnsFallBackToDefaults(t *testing.T) {
	got := Reconcile(&domain.PropertySettings{HouseName: str("Green Villa")}, nil)

	def := Defaults()
	assert.Equal(t, "Green Villa", got.HouseName)
	assert.Equal(t, def.Theme, got.Theme)
	assert.Equal(t, def.DocumentCategories, got.DocumentCategories)
	assert.Equal(t, def.Locale, got.Locale)
}

func TestReconcileOverlayMergesNestedObjects(t *testing.T) {
	server := &domain.PropertySettings{ContactPhone: str("111"), ContactEmail: str("owner@example.com")}
	overlay := Overlay{"contact": json.RawMessage(`{"phone":"222"}`)}

	got := Reconcile(server, overlay)
	assert.Equal(t, "222", got.Contact.Phone)
	assert.Equal(t, "owner@example.com", got.Contact.Email)
}

func TestReconcileOverlayReplacesArrays(t *testing.T) {
	server := &domain.PropertySettings{DocumentCategories: []string{"Lease", "ID"}}
	overlay := Overlay{"documentCategories": json.RawMessage(`["Receipts"]`)}

	got := Reconcile(server, overlay)
	assert.Equal(t, []string{"Receipts"}, got.DocumentCategories)
}

func TestReconcileOverlayNullArrayKeepsBase(t *testing.T) {
	server := &domain.PropertySettings{DocumentCategories: []string{"Lease"}}
	got := Reconcile(server, Overlay{"documentCategories": json.RawMessage(`null`)})
	assert.Equal(t, []string{"Lease"}, got.DocumentCategories)
}

func TestReconcileIgnoresMalformedOverlayEntries(t *testing.T) {
	server := &domain.PropertySettings{HouseName: str("Green Villa")}
	overlay := Overlay{
		"houseName":   json.RawMessage(`42`),
		"nonexistent": json.RawMessage(`"x"`),
		"tabLabels":   json.RawMessage(`{"rent":"Collections"}`),
	}

	got := Reconcile(server, overlay)
	assert.Equal(t, "Green Villa", got.HouseName)
	assert.Equal(t, "Collections", got.TabLabels.Rent)
	assert.Equal(t, Defaults().TabLabels.Tenants, got.TabLabels.Tenants)
}

func TestReconcileNestedThemeColor(t *testing.T) {
	server := &domain.PropertySettings{ThemePrimary: str("#111111")}
	overlay := Overlay{"theme": json.RawMessage(`{"colors":{"accent":"#00ff00"}}`)}

	got := Reconcile(server, overlay)
	assert.Equal(t, "#111111", got.Theme.Colors.Primary)
	assert.Equal(t, "#00ff00", got.Theme.Colors.Accent)
	assert.Equal(t, Defaults().Theme.Colors.Secondary, got.Theme.Colors.Secondary)
}

func TestReconcileAlwaysFullyPopulated(t *testing.T) {
	inputs := []struct {
		server  *domain.PropertySettings
		overlay Overlay
	}{
		{nil, nil},
		{&domain.PropertySettings{}, Overlay{"contact": json.RawMessage(`{}`)}},
		{&domain.PropertySettings{HouseName: str("A")}, Overlay{"documentCategories": json.RawMessage(`null`)}},
	}
	for _, in := range inputs {
		got := Reconcile(in.server, in.overlay)
		blob, err := json.Marshal(got)
		require.NoError(t, err)
		var keys map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(blob, &keys))
		for _, f := range Fields() {
			assert.Contains(t, keys, f)
			assert.NotEqual(t, "null", string(keys[f]), f)
		}
		assert.NotEmpty(t, got.Theme.Colors.Primary)
		assert.NotEmpty(t, got.Locale.CurrencySymbol)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := Defaults()
	s.HouseName = "Blue House"
	s.WhatsAppReminder.Enabled = true
	s.DocumentCategories = []string{"Lease"}

	rec := ToRecord(s)
	assert.Equal(t, s, FromRecord(&rec))
}

func TestEveryFieldHasOneOwner(t *testing.T) {
	st := reflect.TypeOf(Settings{})
	serverFields := map[string]bool{}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		owner := f.Tag.Get("owner")
		require.Contains(t, []string{OwnerServer, OwnerLocal}, owner, "field %s", f.Name)
		if owner == OwnerServer {
			serverFields[jsonName(f.Tag.Get("json"))] = false
		}
	}

	rt := reflect.TypeOf(domain.PropertySettings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Tag.Get("db") == "-" {
			continue
		}
		field := f.Tag.Get("field")
		_, ok := serverFields[field]
		require.True(t, ok, "column %s maps to %q which is not a server field", f.Tag.Get("db"), field)
		serverFields[field] = true
	}
	for field, backed := range serverFields {
		assert.True(t, backed, "server field %s has no column", field)
	}
}

func TestColumnsForField(t *testing.T) {
	cols := Columns("theme", Defaults())
	assert.Len(t, cols, 5)
	assert.Equal(t, str("#2563eb"), cols["theme_primary"])

	assert.Empty(t, Columns("tabLabels", Defaults()))
}

func TestReconcileOverlayPrimaryLeavesHeaderUntouched(t *testing.T) {
	server := &domain.PropertySettings{ThemePrimary: str("#111111")}
	overlay := Overlay{"theme": json.RawMessage(`{"colors":{"primary":"#ABCDEF"}}`)}

	got := Reconcile(server, overlay)
	assert.Equal(t, "#ABCDEF", got.Theme.Colors.Primary)
	assert.Equal(t, Defaults().Theme.Colors.TableHeaderBackground, got.Theme.Colors.TableHeaderBackground)

	server.ThemeTableHeaderBackground = str("#222222")
	got = Reconcile(server, overlay)
	assert.Equal(t, "#222222", got.Theme.Colors.TableHeaderBackground)
}
