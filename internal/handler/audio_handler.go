package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/service"
)

type AudioHandler struct {
	player  *audio.Player
	gateway service.Gateway
}

type speakRequest struct {
	Text string `json:"text"`
}

// NewAudioHandler creates the handler. player may be nil when the host has
// no sound output; /speak then answers 501.
func NewAudioHandler(player *audio.Player, gateway service.Gateway) *AudioHandler {
	return &AudioHandler{player: player, gateway: gateway}
}

func (h *AudioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/speak", h.Speak)
	g.GET("/speech", h.Speech)
}

// Speak pronounces text on the host speaker.
// @Summary Speak text
// @Tags audio
// @Accept json
// @Param text body speakRequest true "Text"
// @Success 204
// @Failure 409 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /speak [post]
func (h *AudioHandler) Speak(c echo.Context) error {
	var req speakRequest
	if err := c.Bind(&req); err != nil || !validText(req.Text) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid text"})
	}
	if h.player == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: "audio output disabled"})
	}
	if err := h.player.Play(c.Request().Context(), req.Text); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Speech returns synthesized speech as a WAV file.
// @Summary Synthesize speech
// @Tags audio
// @Produce audio/wav
// @Param text query string true "Text"
// @Success 200 {file} binary
// @Success 204
// @Failure 400 {object} errorResponse
// @Router /speech [get]
func (h *AudioHandler) Speech(c echo.Context) error {
	text := c.QueryParam("text")
	if !validText(text) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid text"})
	}
	pcm, err := h.gateway.Synthesize(c.Request().Context(), text)
	if err != nil {
		return writeServiceError(c, err)
	}
	if len(pcm) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Blob(http.StatusOK, "audio/wav", audio.EncodeWAV(audio.SpeechFormat, pcm))
}
