package handlers

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// Static serves the pre-built front-end. Paths are resolved inside fsys after
// cleaning, so a request can never name a file outside it. Unknown paths get
// index.html for client-side routing; unknown /api paths get a JSON 404.
type Static struct {
	fsys fs.FS
}

func NewStatic(fsys fs.FS) *Static {
	return &Static{fsys: fsys}
}

func (s *Static) NoRoute(c *gin.Context) {
	p := c.Request.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || !s.serve(c, name) {
		if !s.serve(c, indexFile) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}
}

// serve writes the named regular file and reports whether it existed.
func (s *Static) serve(c *gin.Context, name string) bool {
	if s.fsys == nil || !fs.ValidPath(name) {
		return false
	}
	f, err := s.fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(f)
		if err != nil {
			return false
		}
		content = bytes.NewReader(b)
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
	return true
}
