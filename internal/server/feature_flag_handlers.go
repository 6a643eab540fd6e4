package server

import "github.com/gofiber/fiber/v2"

type featureFlagView struct {
	Name    string `json:"name"`
	Rule    string `json:"rule"`
	Enabled bool   `json:"enabled"`
}

// GetFeatureFlags handles GET /api/feature-flags. Each configured flag is
// listed with its rule and whether it is on for the caller.
// @Summary Feature flags for the caller
// @Tags meta
// @Produce json
// @Success 200 {object} object{flags=[]featureFlagView}
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	uid := currentUser(c)
	rules := s.featureFlags.Raw()
	flags := make([]featureFlagView, 0, len(rules))
	for _, name := range s.featureFlags.Names() {
		flags = append(flags, featureFlagView{
			Name:    name,
			Rule:    rules[name],
			Enabled: s.featureFlags.Enabled(name, uid),
		})
	}
	return c.JSON(fiber.Map{"flags": flags})
}
