package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/layerlint/internal/httpserver/deps"
	"github.com/MrSnakeDoc/layerlint/internal/httpserver/handlers"
)

func init() { Register(registerValidate) }

func registerValidate(r chi.Router, d deps.Deps) {
	r.Post("/api/v1/validate", handlers.Validate(d))
}
