package router_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pageshell/pkg/router"
	"github.com/goliatone/go-pageshell/pkg/view"
)

var sections = []string{"home", "about", "contact"}

func newDoc() *view.Memory {
	doc := view.NewMemory()
	doc.AddElement(sections...)
	doc.AddNav(sections...)
	return doc
}

func newRouter(t *testing.T, doc view.View) *router.Router {
	t.Helper()
	r, err := router.New(doc, sections)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return r
}

func assertActive(t *testing.T, doc *view.Memory, key string) {
	t.Helper()
	if diff := cmp.Diff([]string{key}, doc.VisibleSections()); diff != "" {
		t.Fatalf("visible sections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{key}, doc.ActiveNav()); diff != "" {
		t.Fatalf("active nav mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := router.New(nil, sections); !errors.Is(err, router.ErrNilView) {
		t.Fatalf("expected ErrNilView, got %v", err)
	}
	if _, err := router.New(newDoc(), []string{"home", " "}); err == nil {
		t.Fatalf("expected blank key error")
	}
	if _, err := router.New(newDoc(), []string{"home", "home"}); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestRouter_InitShowsDefault(t *testing.T) {
	doc := newDoc()
	r := newRouter(t, doc)

	r.Init("home")

	if r.Current() != "home" {
		t.Fatalf("expected current home, got %q", r.Current())
	}
	assertActive(t, doc, "home")
}

func TestRouter_SwitchTo(t *testing.T) {
	doc := newDoc()
	r := newRouter(t, doc)
	r.Init("home")

	r.SwitchTo("contact")

	if r.Current() != "contact" {
		t.Fatalf("expected current contact, got %q", r.Current())
	}
	assertActive(t, doc, "contact")
}

func TestRouter_SwitchToIsIdempotent(t *testing.T) {
	doc := newDoc()
	r := newRouter(t, doc)
	r.Init("home")

	r.SwitchTo("about")
	once := doc.Snapshot()
	r.SwitchTo("about")

	if diff := cmp.Diff(once, doc.Snapshot()); diff != "" {
		t.Fatalf("second switch changed the document (-once +twice):\n%s", diff)
	}
}

func TestRouter_UnknownKeysLeaveStateUnchanged(t *testing.T) {
	doc := newDoc()
	// "ghost" has a nav control and element but is not a known section;
	// "orphan" is known to the router but missing from the document.
	doc.AddElement("ghost")
	doc.AddNav("ghost")
	r, err := router.New(doc, append(append([]string(nil), sections...), "orphan"))
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	r.Init("about")
	before := doc.Snapshot()

	for _, key := range []string{"", "nope", "ghost", "orphan", "HOME"} {
		r.SwitchTo(key)
		if r.Current() != "about" {
			t.Fatalf("SwitchTo(%q) changed current to %q", key, r.Current())
		}
		if diff := cmp.Diff(before, doc.Snapshot()); diff != "" {
			t.Fatalf("SwitchTo(%q) changed the document (-before +after):\n%s", key, diff)
		}
	}
}

func TestRouter_InitWithUnknownDefault(t *testing.T) {
	doc := newDoc()
	r := newRouter(t, doc)

	r.Init("missing")

	if r.Current() != "" {
		t.Fatalf("expected no current page, got %q", r.Current())
	}
	if len(doc.VisibleSections()) != 0 {
		t.Fatalf("expected no visible sections, got %v", doc.VisibleSections())
	}
}

func TestRouter_Sections(t *testing.T) {
	r := newRouter(t, newDoc())
	got := r.Sections()
	got[0] = "mutated"
	if diff := cmp.Diff(sections, r.Sections()); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}
