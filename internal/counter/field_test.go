package counter

import (
	"strings"
	"testing"
)

func TestParseField(t *testing.T) {
	t.Run("accepts the closed set", func(t *testing.T) {
		for _, name := range []string{"likes", "dislikes", "infos"} {
			field, err := ParseField(name)
			if err != nil {
				t.Errorf("ParseField(%q) error = %v", name, err)
			}
			if field.String() != name {
				t.Errorf("ParseField(%q) = %q", name, field)
			}
		}
	})

	t.Run("rejects everything else", func(t *testing.T) {
		for _, name := range []string{"", "views", "Likes", "LIKES", " likes", "likes ", "like"} {
			_, err := ParseField(name)
			if err == nil {
				t.Errorf("ParseField(%q) = nil error, want invalid field", name)
			} else if !strings.Contains(err.Error(), "invalid field") {
				t.Errorf("ParseField(%q) error = %q, want it to mention invalid field", name, err.Error())
			}
		}
	})
}

func TestCounts_GetAdd(t *testing.T) {
	c := Counts{Slug: "home", Likes: 1, Dislikes: 2, Infos: 3}

	for _, tt := range []struct {
		field Field
		want  int64
	}{
		{FieldLikes, 1},
		{FieldDislikes, 2},
		{FieldInfos, 3},
	} {
		if got := c.Get(tt.field); got != tt.want {
			t.Errorf("Get(%s) = %d, want %d", tt.field, got, tt.want)
		}

		bumped := c.Add(tt.field, 1)
		if got := bumped.Get(tt.field); got != tt.want+1 {
			t.Errorf("Add(%s, 1).Get = %d, want %d", tt.field, got, tt.want+1)
		}
		// Add returns a copy, the receiver is untouched.
		if got := c.Get(tt.field); got != tt.want {
			t.Errorf("Add mutated receiver: Get(%s) = %d, want %d", tt.field, got, tt.want)
		}
	}
}

func TestZero(t *testing.T) {
	z := Zero("post-1")
	if z.Slug != "post-1" {
		t.Errorf("Slug = %q, want %q", z.Slug, "post-1")
	}
	if z.Likes != 0 || z.Dislikes != 0 || z.Infos != 0 {
		t.Errorf("Zero() = %+v, want all counters 0", z)
	}
}
