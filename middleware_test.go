package main

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRewriteRedirectLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rewriteRedirectLocation())
	r.GET("/old", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "http://example.com/new")
	})
	r.GET("/secure", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "https://example.com/new")
	})
	r.GET("/plain", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp := performRequest(r, http.MethodGet, "/old", nil, "", "")
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "https://example.com/new", resp.Header().Get("Location"))

	resp = performRequest(r, http.MethodGet, "/secure", nil, "", "")
	assert.Equal(t, "https://example.com/new", resp.Header().Get("Location"))

	resp = performRequest(r, http.MethodGet, "/plain", nil, "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Location"))
}

func TestNormalizeRegistrationNumber(t *testing.T) {
	cases := map[string]string{
		"KA-01 AB/1234": "ka01ab1234",
		"ka01ab1234":    "ka01ab1234",
		" MH 12, XY 99 ": "mh12xy99",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeRegistrationNumber(in), in)
	}
}
