package pricefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractoros/backend/internal/domain"
)

// exactScorer gives 100 on a case-insensitive exact match, 0 otherwise.
func exactScorer(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 100
	}
	return 0
}

func writePriceList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewProvider(t *testing.T) {
	t.Run("loads rows and skips the header", func(t *testing.T) {
		path := writePriceList(t, "title,store,zip_prefix,price\n2x4 stud,ACME Lumber,784,3.49\nOSB sheet,ACME Lumber,*,22.00\n")

		p, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		require.NoError(t, err)
		assert.Len(t, p.rows, 2)
		assert.Equal(t, "acme", p.Name())
	})

	t.Run("headerless file works", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME Lumber,784,3.49\n")

		p, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		require.NoError(t, err)
		assert.Len(t, p.rows, 1)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := NewProvider(Config{Path: "x.csv"}, exactScorer)
		assert.ErrorContains(t, err, "requires a name")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewProvider(Config{Name: "acme"}, exactScorer)
		assert.ErrorContains(t, err, "requires a path")
	})

	t.Run("missing scorer", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,3.49\n")
		_, err := NewProvider(Config{Name: "acme", Path: path}, nil)
		assert.ErrorContains(t, err, "similarity scorer")
	})

	t.Run("missing file fails at startup", func(t *testing.T) {
		_, err := NewProvider(Config{Name: "acme", Path: filepath.Join(t.TempDir(), "nope.csv")}, exactScorer)
		assert.ErrorContains(t, err, "failed to open")
	})

	t.Run("short row fails at startup", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784\n")
		_, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		assert.ErrorContains(t, err, "want 4 columns")
	})

	t.Run("bad price fails at startup", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,cheap\n")
		_, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		assert.ErrorContains(t, err, "bad price")
	})

	t.Run("non-positive price fails at startup", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,0\n")
		_, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		assert.ErrorContains(t, err, "non-positive price")
	})

	t.Run("zip filter drops out-of-area rows at load", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,3.49\n2x4 stud,ACME Dallas,750,3.29\nOSB sheet,ACME,*,22.00\n")

		p, err := NewProvider(Config{Name: "acme", Path: path, ZipFilter: "784"}, exactScorer)
		require.NoError(t, err)
		assert.Len(t, p.rows, 2)
	})
}

func TestFetchOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("best scoring row at or above threshold wins", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,3.49\nhurricane tie,ACME,784,1.29\n")
		scorer := func(_, title string) float64 {
			if title == "hurricane tie" {
				return 90
			}
			return 70 // exactly at the default threshold still qualifies
		}

		p, err := NewProvider(Config{Name: "acme", Path: path}, scorer)
		require.NoError(t, err)

		offer, err := p.FetchOffer(ctx, domain.OfferQuery{Name: "h2.5 clip", Zip: "78401"})
		require.NoError(t, err)
		require.NotNil(t, offer)
		assert.Equal(t, "hurricane tie", offer.Title)
		assert.Equal(t, 1.29, offer.Price)
	})

	t.Run("score below threshold is no offer", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,3.49\n")
		scorer := func(_, _ string) float64 { return 69.9 }

		p, err := NewProvider(Config{Name: "acme", Path: path}, scorer)
		require.NoError(t, err)

		offer, err := p.FetchOffer(ctx, domain.OfferQuery{Name: "2x4 stud", Zip: "78401"})
		require.NoError(t, err)
		assert.Nil(t, offer)
	})

	t.Run("request zip excludes scoped rows", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,784,3.49\n")

		p, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		require.NoError(t, err)

		offer, err := p.FetchOffer(ctx, domain.OfferQuery{Name: "2x4 stud", Zip: "10001"})
		require.NoError(t, err)
		assert.Nil(t, offer)
	})

	t.Run("custom threshold", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,ACME,*,3.49\n")
		scorer := func(_, _ string) float64 { return 80 }

		p, err := NewProvider(Config{Name: "acme", Path: path, Threshold: 85}, scorer)
		require.NoError(t, err)

		offer, err := p.FetchOffer(ctx, domain.OfferQuery{Name: "2x4 stud", Zip: "78401"})
		require.NoError(t, err)
		assert.Nil(t, offer)
	})

	t.Run("empty store column falls back to provider name", func(t *testing.T) {
		path := writePriceList(t, "2x4 stud,,*,3.49\n")

		p, err := NewProvider(Config{Name: "acme", Path: path}, exactScorer)
		require.NoError(t, err)

		offer, err := p.FetchOffer(ctx, domain.OfferQuery{Name: "2x4 stud", Zip: "78401"})
		require.NoError(t, err)
		require.NotNil(t, offer)
		assert.Equal(t, "acme", offer.Store)
	})
}
