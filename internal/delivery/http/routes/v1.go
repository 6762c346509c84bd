package routes

import "github.com/gofiber/fiber/v3"

// RegisterV1 mounts every versioned handler that was built. Handlers left nil
// simply expose no routes.
func RegisterV1(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	if h.Analytics != nil {
		h.Analytics.RegisterRoutes(r)
	}
	if h.Offers != nil {
		h.Offers.RegisterRoutes(r)
	}
	if h.Collect != nil {
		h.Collect.RegisterRoutes(r)
	}
}
