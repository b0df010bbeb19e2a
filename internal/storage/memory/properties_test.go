package memory

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"knowledge_hub/internal/domain"
)

var domainIDs = []string{"embedded-systems", "ai-ml", "iot-cloud"}

func genArticle() *rapid.Generator[domain.NewArticle] {
	return rapid.Custom(func(t *rapid.T) domain.NewArticle {
		return domain.NewArticle{
			Title:    rapid.StringN(1, 20, -1).Draw(t, "title"),
			Content:  rapid.String().Draw(t, "content"),
			DomainID: rapid.SampledFrom(domainIDs).Draw(t, "domainId"),
			Tags:     rapid.SliceOfN(rapid.String(), 0, 3).Draw(t, "tags"),
		}
	})
}

func TestProperty_CreateAssignsFreshIDs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		seen := map[string]bool{}
		for _, in := range rapid.SliceOfN(genArticle(), 1, 30).Draw(t, "articles") {
			a, _ := s.CreateArticle(ctx, in)
			if seen[a.ID] {
				t.Fatalf("identifier %s issued twice", a.ID)
			}
			seen[a.ID] = true
			if !a.CreatedAt.Equal(a.UpdatedAt) {
				t.Fatalf("createdAt %v != updatedAt %v", a.CreatedAt, a.UpdatedAt)
			}
		}
	})
}

func TestProperty_EmptyPatchOnlyAdvancesUpdatedAt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		s.now = tick(time.Unix(rapid.Int64Range(0, 1<<40).Draw(t, "start"), 0))

		before, _ := s.CreateArticle(ctx, genArticle().Draw(t, "article"))
		after, _ := s.UpdateArticle(ctx, before.ID, domain.ArticlePatch{})

		if after.UpdatedAt.Before(before.UpdatedAt) {
			t.Fatalf("updatedAt went backwards: %v < %v", after.UpdatedAt, before.UpdatedAt)
		}
		after.UpdatedAt = before.UpdatedAt
		if diff := cmp.Diff(*before, *after); diff != "" {
			t.Fatalf("empty patch changed the record: %s", diff)
		}
	})
}

func TestProperty_DomainScopedListing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		want := map[string]map[string]bool{}
		for _, in := range rapid.SliceOf(genArticle()).Draw(t, "articles") {
			a, _ := s.CreateArticle(ctx, in)
			if want[in.DomainID] == nil {
				want[in.DomainID] = map[string]bool{}
			}
			want[in.DomainID][a.ID] = true
		}

		for _, id := range domainIDs {
			got, _ := s.ListArticles(ctx, id)
			if len(got) != len(want[id]) {
				t.Fatalf("domain %s: got %d articles, want %d", id, len(got), len(want[id]))
			}
			for _, a := range got {
				if !want[id][a.ID] {
					t.Fatalf("domain %s listed foreign article %s", id, a.ID)
				}
			}
		}
	})
}

func TestProperty_DeleteIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		a, _ := s.CreateArticle(ctx, genArticle().Draw(t, "article"))

		first, _ := s.DeleteArticle(ctx, a.ID)
		second, _ := s.DeleteArticle(ctx, a.ID)
		got, _ := s.GetArticle(ctx, a.ID)
		if !first || second || got != nil {
			t.Fatalf("delete sequence: first=%v second=%v get=%v", first, second, got)
		}
	})
}
