package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/starford/notion2hugo/internal/block"
	"github.com/starford/notion2hugo/internal/catalog"
	"github.com/starford/notion2hugo/internal/frontmatter"
	"github.com/starford/notion2hugo/internal/storage"
	"github.com/starford/notion2hugo/internal/testutil"
)

type fakeSource struct {
	tree  block.Block
	err   error
	gotID string
}

func (f *fakeSource) FetchBlockTree(_ context.Context, id string) (block.Block, error) {
	f.gotID = id
	return f.tree, f.err
}

// failingStore fails writes to one path.
type failingStore struct {
	storage.Provider
	failPath string
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Write(path string, content []byte) error {
	if path == s.failPath {
		return errDiskFull
	}
	return s.Provider.Write(path, content)
}

var created = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func page(id, title string, children ...block.Block) block.Block {
	return block.New(block.Container, title,
		block.WithID(id),
		block.WithTimestamps(created, created.Add(time.Hour)),
		block.WithChildren(children...),
	)
}

func root(children ...block.Block) block.Block {
	return block.New(block.Container, "Blog", block.WithChildren(children...))
}

func testEnv(t *testing.T) (storage.Provider, *catalog.DB) {
	t.Helper()
	_, store := testutil.TestPostsDir(t)
	return store, testutil.TestCatalog(t)
}

func TestRun_OnePostPerTitledPage(t *testing.T) {
	store, db := testEnv(t)
	src := &fakeSource{tree: root(
		page("p1", "First post",
			block.New(block.Heading1, "Intro"),
			block.New(block.BulletedListItem, "a\nb"),
		),
		page("p2", ""),
		block.New(block.Paragraph, "stray text"),
	)}

	report, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "root-id")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.gotID != "root-id" {
		t.Errorf("fetched %q", src.gotID)
	}
	if len(report.Written) != 1 || report.Written[0] != "First_post.md" {
		t.Errorf("written = %v", report.Written)
	}
	if report.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", report.Skipped)
	}

	files, _ := store.List("")
	if len(files) != 1 {
		t.Fatalf("files = %+v, want exactly one", files)
	}
	data, err := store.Read("First_post.md")
	if err != nil {
		t.Fatal(err)
	}
	post, err := frontmatter.Decode(string(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if post.Title != "First post" || !post.Date.Equal(created) || post.Draft || post.SourceID != "p1" {
		t.Errorf("post = %+v", post)
	}
	if post.Body != "\n# Intro\n- a\n  b\n\n" {
		t.Errorf("body = %q", post.Body)
	}
}

func TestRun_UnchangedPostsNotRewritten(t *testing.T) {
	_, store := testutil.TestPostsDir(t)
	src := &fakeSource{tree: root(page("p1", "Stable", block.New(block.Paragraph, "same")))}

	if _, err := New(src, store, testutil.TestCatalog(t), WithLogger(testutil.QuietLogger())).Run(context.Background(), "r"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := New(src, store, testutil.TestCatalog(t), WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(report.Written) != 0 || len(report.Unchanged) != 1 || report.Unchanged[0] != "Stable.md" {
		t.Errorf("report = %+v", report)
	}
}

func TestRun_ExistingDraftDoesNotBlockWrite(t *testing.T) {
	store, db := testEnv(t)
	_ = store.Write("Post.md", []byte("---\ntitle: Post\ndraft: true\n---old body"))
	src := &fakeSource{tree: root(page("p1", "Post", block.New(block.Paragraph, "new body")))}

	report, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Written) != 1 {
		t.Fatalf("report = %+v", report)
	}
	data, _ := store.Read("Post.md")
	post, err := frontmatter.Decode(string(data))
	if err != nil {
		t.Fatal(err)
	}
	if post.Draft || post.Body != "new body\n" {
		t.Errorf("post = %+v", post)
	}
}

func TestRun_CollisionReportedNotOverwritten(t *testing.T) {
	store, db := testEnv(t)
	src := &fakeSource{tree: root(
		page("p1", "Hello World", block.New(block.Paragraph, "first")),
		page("p2", "Hello_World", block.New(block.Paragraph, "second")),
	)}

	report, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if err == nil {
		t.Fatal("expected collision error")
	}
	if len(report.Collisions) != 1 {
		t.Fatalf("collisions = %+v", report.Collisions)
	}
	c := report.Collisions[0]
	if c.Path != "Hello_World.md" || c.Title != "Hello_World" || c.KeptTitle != "Hello World" {
		t.Errorf("collision = %+v", c)
	}
	data, _ := store.Read("Hello_World.md")
	if !strings.HasSuffix(string(data), "---first\n") {
		t.Errorf("file should hold the first post, got %q", data)
	}
}

func TestRun_FailureIsolatedPerPost(t *testing.T) {
	base, db := testEnv(t)
	store := &failingStore{Provider: base, failPath: "Bad.md"}
	src := &fakeSource{tree: root(
		page("p1", "Bad", block.New(block.Paragraph, "x")),
		page("p2", "Good", block.New(block.Paragraph, "y")),
	)}

	report, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want errDiskFull", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].Path != "Bad.md" {
		t.Errorf("failures = %+v", report.Failures)
	}
	if len(report.Written) != 1 || report.Written[0] != "Good.md" {
		t.Errorf("written = %v", report.Written)
	}
}

func TestRun_UnusableTitle(t *testing.T) {
	store, db := testEnv(t)
	src := &fakeSource{tree: root(page("p1", "???"))}

	report, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if !errors.Is(err, ErrNoFilename) {
		t.Fatalf("err = %v, want ErrNoFilename", err)
	}
	if len(report.Failures) != 1 {
		t.Errorf("failures = %+v", report.Failures)
	}
}

func TestRun_FetchFailureAborts(t *testing.T) {
	store, db := testEnv(t)
	fetchErr := errors.New("network down")
	src := &fakeSource{err: fetchErr}

	_, err := New(src, store, db, WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v", err)
	}
	files, _ := store.List("")
	if len(files) != 0 {
		t.Errorf("files written after fetch failure: %+v", files)
	}
}

func TestRun_ManyPostsWithWorkerPool(t *testing.T) {
	store, db := testEnv(t)
	var pages []block.Block
	for i := 0; i < 25; i++ {
		pages = append(pages, page(fmt.Sprintf("p%d", i), fmt.Sprintf("Post %02d", i),
			block.New(block.Paragraph, fmt.Sprintf("body %d", i))))
	}
	src := &fakeSource{tree: root(pages...)}

	report, err := New(src, store, db, WithWorkers(3), WithLogger(testutil.QuietLogger())).Run(context.Background(), "r")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Written) != 25 || report.Written[0] != "Post_00.md" || report.Written[24] != "Post_24.md" {
		t.Errorf("written = %v", report.Written)
	}
	stats, _ := db.Stats()
	if stats.Total != 25 {
		t.Errorf("catalog total = %d", stats.Total)
	}
}

func TestBuildPost(t *testing.T) {
	p, ok := BuildPost(page("p1", "Title",
		block.New(block.Code, "x=1", block.WithLanguage("Go")),
	))
	if !ok {
		t.Fatal("expected a post")
	}
	if p.Title != "Title" || p.SourceID != "p1" || !p.Date.Equal(created) {
		t.Errorf("post = %+v", p)
	}
	if p.LastEdited == nil || !p.LastEdited.Equal(created.Add(time.Hour)) {
		t.Errorf("last edited = %v", p.LastEdited)
	}
	if p.Body != "\n```go\nx=1\n```\n" {
		t.Errorf("body = %q", p.Body)
	}

	for _, b := range []block.Block{
		page("p2", ""),
		page("p3", "   "),
		block.New(block.Paragraph, "not a page"),
	} {
		if _, ok := BuildPost(b); ok {
			t.Errorf("BuildPost(%s %q) should be skipped", b.Kind(), b.Text())
		}
	}
}
