// internal/router/proxy.go
package router

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewCatalogProxy forwards /api/*path to the same path on the catalog origin.
// Cookies travel unchanged so the browser's session reaches the catalog.
func NewCatalogProxy(origin string) (gin.HandlerFunc, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog origin %q: %w", origin, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid catalog origin %q", origin)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logrus.WithError(err).WithField("path", r.URL.Path).Error("Catalog proxy failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}
