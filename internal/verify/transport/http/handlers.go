package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/steveyegge/argcheck/internal/verify/dispatch"
	"github.com/steveyegge/argcheck/internal/verify/registry"
)

// verifyRequestBody is the documented POST /api/v1/verify/{name} body.
type verifyRequestBody struct {
	Inputs string         `json:"inputs"`
	Source string         `json:"source,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

func (s *Server) handleVerifySync(c *fiber.Ctx) error {
	var body verifyRequestBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}
	out, err := s.svc.VerifySync(c.Context(), dispatch.VerifyInput{
		Verifier: c.Params("name"),
		Inputs:   body.Inputs,
		Source:   body.Source,
		Config:   body.Config,
	})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (s *Server) handleVerifyAsync(c *fiber.Ctx) error {
	var body verifyRequestBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}
	// Validate the verifier name up front so bad names 404 immediately
	// rather than surfacing only once the caller polls the job.
	if _, err := s.svc.Registry().Get(c.Params("name")); err != nil {
		return err
	}
	job := s.svc.VerifyAsync(dispatch.VerifyInput{
		Verifier: c.Params("name"),
		Inputs:   body.Inputs,
		Source:   body.Source,
		Config:   body.Config,
	})
	return c.Status(fiber.StatusAccepted).JSON(job)
}

func (s *Server) handleGetJob(c *fiber.Ctx) error {
	job, ok := s.svc.GetJob(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return c.JSON(job)
}

type verifiersResponse struct {
	Core         []registry.Info `json:"core"`
	Coherence    []registry.Info `json:"coherence"`
	ContentCheck []registry.Info `json:"content_check"`
}

func (s *Server) handleListVerifiers(c *fiber.Ctx) error {
	core, coherence, contentCheck := s.svc.Registry().Grouped()
	return c.JSON(verifiersResponse{Core: core, Coherence: coherence, ContentCheck: contentCheck})
}

func (s *Server) handleGetVerifier(c *fiber.Ctx) error {
	info, err := s.svc.Registry().Info(c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(info)
}

const serviceVersion = "0.1.0"

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "argcheckd", "version": serviceVersion})
}
