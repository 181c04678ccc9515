package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractoros/backend/internal/domain"
)

func TestNewStore(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		store, err := NewStore(Seed())
		require.NoError(t, err)
		assert.Equal(t, 7, store.Len())
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := NewStore([]domain.MaterialSKU{{Name: "No ID"}})
		assert.ErrorContains(t, err, "empty id")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewStore([]domain.MaterialSKU{{ID: "x"}})
		assert.ErrorContains(t, err, "empty name")
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := NewStore([]domain.MaterialSKU{
			{ID: "x", Name: "X"},
			{ID: "x", Name: "X again"},
		})
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := NewStore([]domain.MaterialSKU{
			{ID: "x", Name: "X", Vendors: []domain.VendorOffer{
				{Store: "Bad", ZipPrefix: "*", Price: 0},
			}},
		})
		assert.ErrorContains(t, err, "non-positive price")
	})

	t.Run("empty zip prefix", func(t *testing.T) {
		_, err := NewStore([]domain.MaterialSKU{
			{ID: "x", Name: "X", Vendors: []domain.VendorOffer{
				{Store: "Bad", ZipPrefix: "", Price: 1.0},
			}},
		})
		assert.ErrorContains(t, err, "zip prefix")
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := NewStore(nil)
		assert.ErrorContains(t, err, "empty")
	})
}

func TestStoreLookups(t *testing.T) {
	store, err := NewStore(Seed())
	require.NoError(t, err)

	t.Run("Get", func(t *testing.T) {
		sku, ok := store.Get("2x4_stud_92")
		require.True(t, ok)
		assert.Equal(t, "each", sku.Unit)

		_, ok = store.Get("granite_slab")
		assert.False(t, ok)
	})

	t.Run("IDs are sorted", func(t *testing.T) {
		ids := store.IDs()
		require.Len(t, ids, 7)
		assert.IsIncreasing(t, ids)
	})

	t.Run("All follows id order", func(t *testing.T) {
		all := store.All()
		require.Len(t, all, 7)
		assert.Equal(t, store.IDs()[0], all[0].ID)
	})
}

func TestOffersFor(t *testing.T) {
	store, err := NewStore(Seed())
	require.NoError(t, err)

	t.Run("matching zip includes scoped and wildcard rows", func(t *testing.T) {
		offers := store.OffersFor("2x4_stud_92", "78401")
		require.Len(t, offers, 4)
		assert.Equal(t, "McCoy's", offers[0].Store)
		assert.Equal(t, 3.69, offers[0].Price)
		for i := 1; i < len(offers); i++ {
			assert.GreaterOrEqual(t, offers[i].Price, offers[i-1].Price)
		}
	})

	t.Run("non-matching zip keeps only wildcard rows", func(t *testing.T) {
		offers := store.OffersFor("2x4_stud_92", "10001")
		require.Len(t, offers, 1)
		assert.Equal(t, "Generic", offers[0].Store)
	})

	t.Run("unknown id yields no offers", func(t *testing.T) {
		assert.Empty(t, store.OffersFor("granite_slab", "78401"))
	})
}

func TestCheapestPrice(t *testing.T) {
	store, err := NewStore(Seed())
	require.NoError(t, err)

	price, ok := store.CheapestPrice("2x4_stud_92")
	require.True(t, ok)
	// McCoy's beats the 784-scoped and wildcard rows
	assert.Equal(t, 3.69, price)

	_, ok = store.CheapestPrice("granite_slab")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		data := `[
			{"id": "brick", "name": "Clay Brick", "unit": "each", "vendors": [
				{"store": "Acme", "zipPrefix": "*", "price": 0.55}
			]}
		]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		store, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len())

		price, ok := store.CheapestPrice("brick")
		require.True(t, ok)
		assert.Equal(t, 0.55, price)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorContains(t, err, "failed to read")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "failed to parse")
	})
}
