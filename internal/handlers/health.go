package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xHacka/login-log-generator/internal/generator"
)

type HealthHandler struct {
	Generator *generator.Generator
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":       "ok",
		"max_quantity": h.Generator.MaxQuantity(),
	})
}
