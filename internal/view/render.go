// internal/view/render.go
//
// Central view engine: template lookup, override chain, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (fragments, tests).
//
// Lookup precedence (first hit wins):
//   1. <themeDir>/components/<comp>/templates/<tpl>.html   (on disk)
//   2. templates/<tpl>.html inside the component's mounted fs.FS
//
// All templates in the same directory are parsed as one set so sub-templates
// ({{ template "field" . }}) work out-of-the-box.
//
// execName() chooses the template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yanizio/playground/internal/cache"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // reuse the parsed set
	CacheSkip                       // always re-parse (development)
)

// ErrNotFound is returned when no override and no mounted template exist.
var ErrNotFound = errors.New("view: template not found")

// Engine resolves, parses, caches, and executes templates.
type Engine struct {
	themeDir string
	lru      *cache.LRU

	mu     sync.RWMutex
	mounts map[string]fs.FS
}

// New returns an Engine.  themeDir may be empty to disable disk overrides.
func New(themeDir string) *Engine {
	return &Engine{
		themeDir: themeDir,
		lru:      cache.New(256),
		mounts:   make(map[string]fs.FS),
	}
}

// Mount registers the embedded templates of component comp.  fsys must hold
// a "templates" directory.
func (e *Engine) Mount(comp string, fsys fs.FS) {
	e.mu.Lock()
	e.mounts[comp] = fsys
	e.mu.Unlock()
	e.lru.Purge()
}

//
// public helpers
//

// Render executes the template and streams it to w.  Output is buffered so a
// failing template never leaves a half-written page.
func (e *Engine) Render(w http.ResponseWriter, status int, comp, name string, data any, policy CachePolicy) error {
	var buf bytes.Buffer
	if err := e.execute(&buf, comp, name, data, policy); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString executes and returns HTML.
func (e *Engine) RenderToString(comp, name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.execute(&buf, comp, name, data, CacheDefault); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (e *Engine) execute(buf *bytes.Buffer, comp, name string, data any, policy CachePolicy) error {
	t, err := e.load(comp, name, policy)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(buf, execName(t, name), data)
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for comp and name,
// obeying the provided cache policy.
func (e *Engine) load(comp, name string, policy CachePolicy) (*template.Template, error) {
	key := strings.Join([]string{comp, name}, "::")

	if policy != CacheSkip {
		if v, ok := e.lru.Get(key); ok {
			return v.(*template.Template), nil
		}
	}

	fsys, dir, err := e.locate(comp, name)
	if err != nil {
		return nil, err
	}

	t, err := template.New(name).Funcs(funcMap()).ParseFS(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("view: parse %s/%s: %w", comp, name, err)
	}

	if policy != CacheSkip {
		e.lru.Add(key, t)
	}
	return t, nil
}

// locate returns the filesystem and directory holding name.html.
func (e *Engine) locate(comp, name string) (fs.FS, string, error) {
	if e.themeDir != "" {
		dir := filepath.Join(e.themeDir, "components", comp, "templates")
		if _, err := os.Stat(filepath.Join(dir, name+".html")); err == nil {
			return os.DirFS(dir), ".", nil
		}
	}

	e.mu.RLock()
	fsys, ok := e.mounts[comp]
	e.mu.RUnlock()
	if ok {
		if _, err := fs.Stat(fsys, path.Join("templates", name+".html")); err == nil {
			return fsys, "templates", nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s/%s", ErrNotFound, comp, name)
}

//
// func-map builders
//

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"json": toJSON,
	}
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// toJSON pretty-prints v for state panels.  html/template escapes the result.
func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
