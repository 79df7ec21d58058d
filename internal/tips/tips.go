/*
Package tips implements the sustainability tips endpoint: it validates the
caller's location and habits, asks the text generator for categorized advice
and returns the answer split into lines.
*/
package tips

import (
	"context"
	"net/http"
	"strings"
	"time"

	"SustainAI_Tips/internal/utility"
	"github.com/labstack/echo/v4"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// TipsRequest is the payload expected from the client.
type TipsRequest struct {
	Location string `json:"location"`
	Habits   string `json:"habits"`
}

// TipsResponse carries the generated tips, one markdown line per entry.
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// ErrorResponse is returned for every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// User-visible error messages. Callers never see the underlying cause.
const (
	MsgMissingInput     = "Please provide both location and habits"
	MsgGenerationFailed = "Failed to generate tips. Please try again."
)

// Generator produces free text from a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler serves POST /api/tips.
type Handler struct {
	generator Generator
	timeout   time.Duration
}

// NewHandler returns a Handler that calls g once per request. A positive
// timeout bounds each call; zero leaves only the request context in charge.
func NewHandler(g Generator, timeout time.Duration) *Handler {
	return &Handler{generator: g, timeout: timeout}
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// GenerateTipsHandler orchestrates: Validation -> Prompt -> AI Generation -> Splitting -> Response.
func (h *Handler) GenerateTipsHandler(c echo.Context) error {
	logger := utility.GetLoggerFromContext(c)

	var req TipsRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind tips request body")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgMissingInput})
	}

	location := strings.TrimSpace(req.Location)
	habits := strings.TrimSpace(req.Habits)
	if location == "" || habits == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgMissingInput})
	}

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	logger.Info().Str("location", location).Msg("Generating sustainability tips")

	text, err := h.generator.Generate(ctx, BuildTipsPrompt(location, habits))
	if err != nil {
		logger.Error().Err(err).Str("location", location).Msg("Error generating tips")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgGenerationFailed})
	}

	tips := SplitTips(text)
	logger.Info().Int("tips", len(tips)).Msg("Tips generated")

	return c.JSON(http.StatusOK, TipsResponse{Tips: tips})
}
