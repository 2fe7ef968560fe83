package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConfigHandler serves the Supabase connection values to the browser client.
// The endpoint is GET-only and fails loudly when the server-side environment
// is incomplete, so a misconfigured deploy is visible on first load.
type ConfigHandler struct {
	supabaseURL     string
	supabaseAnonKey string
}

func NewConfigHandler(supabaseURL, supabaseAnonKey string) *ConfigHandler {
	return &ConfigHandler{
		supabaseURL:     supabaseURL,
		supabaseAnonKey: supabaseAnonKey,
	}
}

// Handle is registered for every method on the config path and enforces
// GET-only itself, answering anything else with 405 and an Allow header.
func (h *ConfigHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Header("Allow", http.MethodGet)
		c.String(http.StatusMethodNotAllowed, "Method %s Not Allowed", c.Request.Method)
		return
	}

	if h.supabaseURL == "" || h.supabaseAnonKey == "" {
		log.Println("supabase environment variables are not set")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server configuration error. Supabase environment variables missing.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supabaseUrl":     h.supabaseURL,
		"supabaseAnonKey": h.supabaseAnonKey,
	})
}
