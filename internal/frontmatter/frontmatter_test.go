package frontmatter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/notion2hugo/internal/apperr"
	"github.com/starford/notion2hugo/internal/models"
)

func samePost(t *testing.T, got, want models.Post) {
	t.Helper()
	if got.Title != want.Title {
		t.Errorf("title = %q, want %q", got.Title, want.Title)
	}
	if !got.Date.Equal(want.Date) {
		t.Errorf("date = %v, want %v", got.Date, want.Date)
	}
	if got.Draft != want.Draft {
		t.Errorf("draft = %v, want %v", got.Draft, want.Draft)
	}
	if got.Body != want.Body {
		t.Errorf("body = %q, want %q", got.Body, want.Body)
	}
	if !reflect.DeepEqual(got.Aliases, want.Aliases) {
		t.Errorf("aliases = %v, want %v", got.Aliases, want.Aliases)
	}
	if got.SourceID != want.SourceID {
		t.Errorf("source id = %q, want %q", got.SourceID, want.SourceID)
	}
	switch {
	case (got.LastEdited == nil) != (want.LastEdited == nil):
		t.Errorf("last edited = %v, want %v", got.LastEdited, want.LastEdited)
	case got.LastEdited != nil && !got.LastEdited.Equal(*want.LastEdited):
		t.Errorf("last edited = %v, want %v", *got.LastEdited, *want.LastEdited)
	}
	if !reflect.DeepEqual(got.Extra, want.Extra) {
		t.Errorf("extra = %#v, want %#v", got.Extra, want.Extra)
	}
}

func TestRoundTrip(t *testing.T) {
	edited := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)
	posts := []models.Post{
		{
			Title: "Hello",
			Date:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Body:  "\n# Intro\nSome text.\n",
		},
		{
			Title:      "With everything",
			Date:       time.Date(2023, 12, 31, 23, 59, 59, 500, time.FixedZone("CET", 3600)),
			Draft:      true,
			Body:       "- a\n  b\n\n",
			Aliases:    []string{"/old/path", "/older"},
			SourceID:   "0f3c9a1e-2b4d-4c5e-8f60-718293a4b5c6",
			LastEdited: &edited,
			Extra:      map[string]any{"series": "go", "weight": 3},
		},
		{
			Title: "Title: with --- and quotes \"x\"",
			Date:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Body:  "",
		},
	}
	for _, p := range posts {
		enc, err := Encode(p)
		if err != nil {
			t.Fatalf("Encode(%q): %v", p.Title, err)
		}
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v\n%s", p.Title, err, enc)
		}
		samePost(t, got, p)
	}
}

func TestEncode_Layout(t *testing.T) {
	p := models.Post{
		Title: "Hello",
		Date:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Body:  "body",
	}
	got, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	want := "---\ntitle: Hello\ndate: 2024-03-01T10:00:00Z\ndraft: false\n---body"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncode_OmitsEmptyOptionalFields(t *testing.T) {
	got, err := Encode(models.Post{Title: "x", Aliases: []string{}, Extra: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"aliases", "source_id", "last_edited"} {
		if strings.Contains(got, key) {
			t.Errorf("%s should be omitted:\n%s", key, got)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	p := models.Post{
		Title: "x",
		Extra: map[string]any{"zeta": 1, "alpha": 2, "mid": 3},
	}
	first, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := Encode(p)
		if again != first {
			t.Fatalf("output changed between runs:\n%s\n%s", first, again)
		}
	}
	if !(strings.Index(first, "alpha") < strings.Index(first, "mid") &&
		strings.Index(first, "mid") < strings.Index(first, "zeta")) {
		t.Errorf("extra keys not sorted:\n%s", first)
	}
}

func TestEncode_ExtraCannotShadowKnownKeys(t *testing.T) {
	got, err := Encode(models.Post{Title: "real", Extra: map[string]any{"title": "fake"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "fake") {
		t.Errorf("reserved key leaked from extra:\n%s", got)
	}
}

func TestDecode_DraftDefaultsFalse(t *testing.T) {
	p, err := Decode("---\ntitle: No draft key\ndate: 2024-01-02T00:00:00Z\n---text")
	if err != nil {
		t.Fatal(err)
	}
	if p.Draft {
		t.Error("draft should default to false")
	}
	if p.Body != "text" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestDecode_DateOnly(t *testing.T) {
	p, err := Decode("---\ntitle: x\ndate: 2024-01-02\n---")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", p.Date)
	}
}

func TestDecode_BodyKeepsDelimiters(t *testing.T) {
	body := "\nbefore\n---\nafter --- inline\n---"
	p := models.Post{Title: "x", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Body: body}
	enc, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Body != body {
		t.Errorf("body = %q, want %q", got.Body, body)
	}
}

func TestDecode_UnknownKeysPreserved(t *testing.T) {
	in := "---\ntitle: x\ndate: 2024-01-01T00:00:00Z\ndraft: true\ncategories:\n  - go\nweight: 7\n---body"
	p, err := Decode(in)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Draft {
		t.Error("draft should be true")
	}
	if p.Extra["weight"] != 7 {
		t.Errorf("weight = %#v", p.Extra["weight"])
	}
	cats, ok := p.Extra["categories"].([]any)
	if !ok || len(cats) != 1 || cats[0] != "go" {
		t.Errorf("categories = %#v", p.Extra["categories"])
	}

	out, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("re-encode changed file:\n got %q\nwant %q", out, in)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"no header":      "just a body",
		"unterminated":   "---\ntitle: x\n",
		"leading text":   "intro\n---\ntitle: x\n---body",
		"invalid yaml":   "---\n: bad: [\n---body",
		"wrong type":     "---\ndraft: [1, 2]\n---body",
		"empty document": "",
	}
	for name, in := range cases {
		_, err := Decode(in)
		if !errors.Is(err, apperr.ErrMalformedDocument) {
			t.Errorf("%s: err = %v, want ErrMalformedDocument", name, err)
		}
	}
}

func TestDecode_EmptyHeader(t *testing.T) {
	p, err := Decode("---\n---body")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "" || p.Draft || p.Body != "body" {
		t.Errorf("unexpected post: %+v", p)
	}
}
