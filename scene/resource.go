package scene

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resource wraps a local file or a file streamed over http/https.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// NewResource opens a resource. If relTo is specified and pathToResource
// does not define a scheme, the new resource is looked up next to relTo.
//
// The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	resURL, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	// Resolve relative paths against the parent
	if resURL.Scheme == "" && relTo != nil && !filepath.IsAbs(resURL.Path) {
		rel := resURL.Path
		resURL, _ = url.Parse(relTo.url.String())
		if resURL.Scheme == "" {
			base, err := filepath.Abs(relTo.url.Path)
			if err != nil {
				return nil, fmt.Errorf("scene: could not detect abs path for %s: %w", relTo.url.Path, err)
			}
			resURL.Path = filepath.Join(filepath.Dir(base), rel)
		} else {
			resURL.Path = path.Join(path.Dir(resURL.Path), rel)
		}
	}

	var reader io.ReadCloser
	switch resURL.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(resURL.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(resURL.String())
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %v", ErrFetch, resURL.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w '%s': status %d", ErrFetch, resURL.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedScheme, resURL.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        resURL,
	}, nil
}

// NewResourceFromStream wraps an in-memory scene description.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	resURL, err := url.Parse(name)
	if err != nil {
		resURL = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        resURL,
	}
}
