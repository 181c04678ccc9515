package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/contractoros/backend/internal/domain"
)

// fakeExtractor returns canned drafts or a canned error.
type fakeExtractor struct {
	drafts []domain.ItemDraft
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, _ []byte, _ []string) ([]domain.ItemDraft, error) {
	f.calls++
	return f.drafts, f.err
}

func newTestResolver(t *testing.T, extractor domain.ItemExtractor) *IntentResolver {
	t.Helper()
	store := newTestStore(t)
	idx, err := NewSynonymIndex(store, testSynonyms(), IndexConfig{})
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return NewIntentResolver(store, idx, extractor, ResolverConfig{})
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		line string
		want float64
	}{
		{"12 2x4 studs", 12},
		{"2.5 lbs nails", 2.5},
		{"studs", 1},
		{"", 1},
		{"osb 7/16 sheathing", 7},
		{"  3 sheets osb", 3},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := ParseQuantity(tt.line); got != tt.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatchSKU(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"compound stud rule", "40 2x4 studs 92-5/8", "2x4_stud_92", true},
		{"compound plate rule", "120 lf 2x4 plate", "2x4_plate_lf", true},
		{"compound joist rule", "14 2x10x12 joists", "2x1012_joist", true},
		{"osb needs thickness", "10 sheets osb 7/16", "osb_716_4x8", true},
		{"hurricane rule", "50 hurricane ties", "hurricane_tie", true},
		{"nails rule", "10 lbs nails", "nails_lb", true},
		{"screws rule", "5 lb exterior screws", "screws_lb", true},
		{"bare stud falls through to stud sku", "some studs", "2x4_stud_92", true},
		{"synonym exact", "precut stud", "2x4_stud_92", true},
		{"no match", "granite countertop 48in", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.MatchSKU(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Errorf("MatchSKU(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAggregateLines(t *testing.T) {
	r := newTestResolver(t, nil)

	t.Run("sums quantities for the same sku", func(t *testing.T) {
		items := r.AggregateLines("2 2x4 studs\n3 studs")
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
		if items[0].SKUHint != "2x4_stud_92" || items[0].Qty != 5 {
			t.Errorf("item = %+v, want sku 2x4_stud_92 qty 5", items[0])
		}
	})

	t.Run("strips bullet markers and blank lines", func(t *testing.T) {
		items := r.AggregateLines("- 4 hurricane ties\n\n• 2 lbs nails\n* 1 joist\n   \n")
		if len(items) != 3 {
			t.Fatalf("items = %d, want 3", len(items))
		}
	})

	t.Run("drops unresolvable lines silently", func(t *testing.T) {
		items := r.AggregateLines("3 studs\ntotally unknown material\n")
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
	})

	t.Run("result length bounded by non-empty lines", func(t *testing.T) {
		text := "1 stud\n2 joists\n3 nails\n"
		items := r.AggregateLines(text)
		if len(items) > 3 {
			t.Errorf("items = %d, want <= 3", len(items))
		}
	})

	t.Run("carries catalog name and unit", func(t *testing.T) {
		items := r.AggregateLines("10 lbs nails")
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
		if items[0].Name != "Nails (per lb)" || items[0].Unit != "lb" {
			t.Errorf("item = %+v, want catalog name and unit", items[0])
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		text := "- 2 2x4 studs\n- 120 lf 2x4 plate\n- junk line\n- 3 studs"
		first := r.AggregateLines(text)
		second := r.AggregateLines(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("resolution not idempotent: %+v vs %+v", first, second)
		}
	})

	t.Run("never panics on odd input", func(t *testing.T) {
		for _, text := range []string{"", "\n\n\n", "•••", "---", "\t", "🙂", "2 2"} {
			_ = r.AggregateLines(text)
		}
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("uses extractor drafts when available", func(t *testing.T) {
		fake := &fakeExtractor{drafts: []domain.ItemDraft{
			{Name: "2x4 stud", Qty: 40, Unit: "each", SKUHint: "2x4_stud_92"},
			{Name: "osb sheet", Qty: 10, Unit: "sheet", SKUHint: "osb_716_4x8"},
		}}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "irrelevant", nil)
		if fake.calls != 1 {
			t.Errorf("extractor calls = %d, want 1", fake.calls)
		}
		if len(items) != 2 {
			t.Fatalf("items = %d, want 2", len(items))
		}
		if items[0].SKUHint != "2x4_stud_92" || items[0].Qty != 40 {
			t.Errorf("item = %+v, want sku 2x4_stud_92 qty 40", items[0])
		}
	})

	t.Run("repairs unknown sku hints via matcher", func(t *testing.T) {
		fake := &fakeExtractor{drafts: []domain.ItemDraft{
			{Name: "2x10x12 joist", Qty: 6, SKUHint: "bogus_sku"},
		}}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "", nil)
		if len(items) != 1 || items[0].SKUHint != "2x1012_joist" {
			t.Errorf("items = %+v, want repaired joist sku", items)
		}
	})

	t.Run("substitutes baseline sku when repair fails", func(t *testing.T) {
		fake := &fakeExtractor{drafts: []domain.ItemDraft{
			{Name: "mystery widget", Qty: 2, SKUHint: "not_in_catalog"},
		}}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "", nil)
		if len(items) != 1 || items[0].SKUHint != BaselineSKU {
			t.Errorf("items = %+v, want baseline sku %s", items, BaselineSKU)
		}
	})

	t.Run("defaults non-positive draft quantities to one", func(t *testing.T) {
		fake := &fakeExtractor{drafts: []domain.ItemDraft{
			{Name: "hurricane tie", Qty: 0, SKUHint: "hurricane_tie"},
		}}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "", nil)
		if len(items) != 1 || items[0].Qty != 1 {
			t.Errorf("items = %+v, want qty 1", items)
		}
	})

	t.Run("falls back to rules on extractor failure", func(t *testing.T) {
		fake := &fakeExtractor{err: errors.New("model unavailable")}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "3 studs", nil)
		if fake.calls != 1 {
			t.Errorf("extractor calls = %d, want 1", fake.calls)
		}
		if len(items) != 1 || items[0].SKUHint != "2x4_stud_92" || items[0].Qty != 3 {
			t.Errorf("items = %+v, want rule-resolved studs", items)
		}
	})

	t.Run("falls back on empty draft list", func(t *testing.T) {
		fake := &fakeExtractor{drafts: nil}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "2 joists", nil)
		if len(items) != 1 || items[0].SKUHint != "2x1012_joist" {
			t.Errorf("items = %+v, want rule-resolved joists", items)
		}
	})

	t.Run("skips extractor when not configured", func(t *testing.T) {
		r := newTestResolver(t, nil)
		items := r.Resolve(ctx, "1 stud", nil)
		if len(items) != 1 {
			t.Errorf("items = %d, want 1", len(items))
		}
	})

	t.Run("merges drafts resolving to the same sku", func(t *testing.T) {
		fake := &fakeExtractor{drafts: []domain.ItemDraft{
			{Name: "studs", Qty: 2, SKUHint: "2x4_stud_92"},
			{Name: "wall studs", Qty: 3, SKUHint: "2x4_stud_92"},
		}}
		r := newTestResolver(t, fake)

		items := r.Resolve(ctx, "", nil)
		if len(items) != 1 || items[0].Qty != 5 {
			t.Errorf("items = %+v, want merged qty 5", items)
		}
	})
}
