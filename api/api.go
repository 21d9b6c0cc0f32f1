package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// APIServer wraps the fiber app with its listen address.
type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName: "AceIt API",
		}),
		listenAddress: listenAddress,
	}
}

// GetEngine exposes the underlying fiber app for middleware and route
// registration.
func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Printf("Listening on %s", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}
