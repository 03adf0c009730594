package scene

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalResource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yaml")
	if err := os.WriteFile(path, []byte("objects: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewResource(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected a local resource")
	}
	if _, err = NewResource(filepath.Join(dir, "missing.yaml"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist; got %v", err)
	}
}

func TestRelativeResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		switch r.URL.Path {
		case "/scenes/stack.yaml", "/scenes/crate.obj":
			w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/scenes/stack.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("crate.obj", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if !res2.IsRemote() {
		t.Fatal("expected a resource relative to a remote one to be remote")
	}
	data, _ := io.ReadAll(res2)
	if string(data) != "OK" {
		t.Fatalf("expected to read OK; got %q", data)
	}
	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	if _, err := NewResource("gopher://digging.yaml", nil); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme; got %v", err)
	}
}
