package nxview

import (
	"errors"
	"strings"
	"testing"
)

// testForest mounts a small tree under Base.nx and another under UI.nx.
//
//	Base.nx
//	  Hello
//	    img (bitmap 2x2)
//	  World
//	    nested
//	      hello.txt (string)
//	UI.nx
//	  Login
//	    BtOk (bitmap 1x1)
func testForest(t *testing.T) *ArchiveSet {
	t.Helper()
	base := NewContainer("").Add(
		NewContainer("Hello").Add(NewBitmap("img", solidBitmap(2, 2))),
		NewContainer("World").Add(
			NewContainer("nested").Add(NewString("hello.txt", "hi")),
		),
	)
	ui := NewContainer("").Add(
		NewContainer("Login").Add(NewBitmap("BtOk", solidBitmap(1, 1))),
	)
	set := NewArchiveSet()
	if err := set.Mount(ArchiveBase, base); err != nil {
		t.Fatal(err)
	}
	if err := set.Mount(ArchiveUI, ui); err != nil {
		t.Fatal(err)
	}
	return set
}

func solidBitmap(w, h int) Bitmap {
	pix := make([]byte, 4*w*h)
	for i := range pix {
		pix[i] = 0xFF
	}
	return Bitmap{Width: w, Height: h, Pix: pix}
}

// --- Resolve ---

func TestResolve(t *testing.T) {
	set := testForest(t)
	tests := []struct {
		path string
		want string
	}{
		{"Base.nx", ""},
		{"Base.nx/", ""},
		{"Base.nx/Hello", "Hello"},
		{"Base.nx/Hello/img", "img"},
		{"Base.nx//Hello//img/", "img"},
		{"Base.nx/World/nested/hello.txt", "hello.txt"},
		{"UI.nx/Login/BtOk", "BtOk"},
	}
	for _, tt := range tests {
		n, err := set.Resolve(tt.path)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.path, err)
			continue
		}
		if n.Name() != tt.want {
			t.Errorf("Resolve(%q).Name() = %q, want %q", tt.path, n.Name(), tt.want)
		}
	}
}

func TestResolveSameNodeEveryTime(t *testing.T) {
	set := testForest(t)
	a, _ := set.Resolve("Base.nx/Hello")
	b, _ := set.Resolve("Base.nx/Hello/")
	if a != b {
		t.Error("equivalent paths should resolve to the same node")
	}
}

func TestResolveErrors(t *testing.T) {
	set := testForest(t)
	tests := []struct {
		path    string
		want    error
		segment string
	}{
		{"", ErrUnknownArchive, ""},
		{"Nope.nx/Hello", ErrUnknownArchive, "Nope.nx"},
		{"base.nx/Hello", ErrUnknownArchive, "base.nx"},
		{"Map.nx/anything", ErrUnknownArchive, "Map.nx"},
		{"/Base.nx/Hello", ErrUnknownArchive, ""},
		{"Base.nx/hello", ErrPathNotFound, "hello"},
		{"Base.nx/Hello/img/more", ErrPathNotFound, "more"},
		{"Base.nx/World/missing/hello.txt", ErrPathNotFound, "missing"},
	}
	for _, tt := range tests {
		n, err := set.Resolve(tt.path)
		if n != nil {
			t.Errorf("Resolve(%q) returned a node with error", tt.path)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Resolve(%q) err = %v, want %v", tt.path, err, tt.want)
			continue
		}
		var pe *PathError
		if !errors.As(err, &pe) {
			t.Errorf("Resolve(%q) err is %T, want *PathError", tt.path, err)
			continue
		}
		if pe.Segment != tt.segment {
			t.Errorf("Resolve(%q) segment = %q, want %q", tt.path, pe.Segment, tt.segment)
		}
		if pe.Path != tt.path || pe.Op != "resolve" {
			t.Errorf("Resolve(%q) PathError = %+v", tt.path, pe)
		}
		if !IsUnresolved(err) {
			t.Errorf("IsUnresolved(%v) = false", err)
		}
	}
}

func TestPathErrorMessage(t *testing.T) {
	_, err := testForest(t).Resolve("Base.nx/Hello/nope")
	msg := err.Error()
	if !strings.Contains(msg, "Base.nx/Hello/nope") || !strings.Contains(msg, "at nope") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestResolverFunc(t *testing.T) {
	want := NewContainer("x")
	r := ResolverFunc(func(path string) (Node, error) { return want, nil })
	got, err := r.Resolve("anything")
	if err != nil || got != want {
		t.Errorf("ResolverFunc = %v, %v", got, err)
	}
}

// --- Path helpers ---

func TestJoinSplitPath(t *testing.T) {
	if got := JoinPath("Base.nx"); got != "Base.nx" {
		t.Errorf("JoinPath(label) = %q", got)
	}
	if got := JoinPath("Base.nx", "a", "b"); got != "Base.nx/a/b" {
		t.Errorf("JoinPath = %q", got)
	}

	label, names := SplitPath("UI.nx//a/b/")
	if label != "UI.nx" || strings.Join(names, ",") != "a,b" {
		t.Errorf("SplitPath = %q, %v", label, names)
	}
	label, names = SplitPath("UI.nx")
	if label != "UI.nx" || len(names) != 0 {
		t.Errorf("SplitPath(label) = %q, %v", label, names)
	}
}

func TestCleanAndParentPath(t *testing.T) {
	tests := []struct {
		in, clean, parent string
	}{
		{"Base.nx", "Base.nx", ""},
		{"Base.nx/", "Base.nx", ""},
		{"Base.nx/a", "Base.nx/a", "Base.nx"},
		{"Base.nx//a//b/", "Base.nx/a/b", "Base.nx/a"},
	}
	for _, tt := range tests {
		if got := CleanPath(tt.in); got != tt.clean {
			t.Errorf("CleanPath(%q) = %q, want %q", tt.in, got, tt.clean)
		}
		if got := ParentPath(tt.in); got != tt.parent {
			t.Errorf("ParentPath(%q) = %q, want %q", tt.in, got, tt.parent)
		}
	}
}
