package main

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fuelcheck/models"
)

// requireToken guards protected endpoints. On success the live user record
// (not the token claims) is stored in the request context, so handlers see
// up-to-date state.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.auth.Authorize(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// rewriteRedirectLocation rewrites http: redirect targets to https: so
// clients behind the TLS-terminating proxy never bounce back to plain http.
// The writer is wrapped because headers are gone once the handler flushes.
func rewriteRedirectLocation() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &redirectRewriter{c.Writer}
		c.Next()
	}
}

type redirectRewriter struct {
	gin.ResponseWriter
}

func (w *redirectRewriter) WriteHeader(code int) {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		if loc := w.Header().Get("Location"); strings.HasPrefix(loc, "http:") {
			w.Header().Set("Location", "https:"+strings.TrimPrefix(loc, "http:"))
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func corsConfig(cfg *Config) cors.Config {
	conf := cors.DefaultConfig()
	conf.AddAllowHeaders("Authorization")
	if cfg.Debug || len(cfg.AllowedOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = cfg.AllowedOrigins
		conf.AllowCredentials = true
	}
	return conf
}
