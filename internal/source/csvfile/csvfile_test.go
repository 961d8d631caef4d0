package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolpower-site/internal/types"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	deals := "\ufeffDeal ID,Item Name,Short Description,Is Active\n" +
		"D1,Solar Panel,\"200W panel, monocrystalline\",Yes\n" +
		"D2,Battery\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Deals.csv"), []byte(deals), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Members.csv"), []byte("Name\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	return dir
}

func TestFetchRows(t *testing.T) {
	rows, err := New().FetchRows(context.Background(), fixtureDir(t), "Deals")
	require.NoError(t, err)

	assert.Equal(t, []types.DealRecord{
		{"Deal ID": "D1", "Item Name": "Solar Panel", "Short Description": "200W panel, monocrystalline", "Is Active": "Yes"},
		{"Deal ID": "D2", "Item Name": "Battery", "Short Description": "", "Is Active": ""},
	}, rows)
}

func TestFetchRowsErrors(t *testing.T) {
	dir := fixtureDir(t)
	r := New()

	_, err := r.FetchRows(context.Background(), filepath.Join(dir, "nope"), "Deals")
	assert.ErrorIs(t, err, types.ErrResourceNotFound)

	_, err = r.FetchRows(context.Background(), filepath.Join(dir, "notes.txt"), "Deals")
	assert.ErrorIs(t, err, types.ErrResourceNotFound)

	_, err = r.FetchRows(context.Background(), dir, "Offers")
	assert.ErrorIs(t, err, types.ErrTabNotFound)
}

func TestListTabs(t *testing.T) {
	tabs, err := New().ListTabs(context.Background(), fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Deals", "Members"}, tabs)
}
