package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/service"
)

type SessionHandler struct {
	session service.Session
}

type languagesRequest struct {
	NativeLang string `json:"nativeLang"`
	TargetLang string `json:"targetLang"`
}

type viewRequest struct {
	View string `json:"view"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type notebookResponse struct {
	Items []model.NotebookItem `json:"items"`
}

func NewSessionHandler(session service.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/state", h.GetState)
	g.POST("/onboarding", h.CompleteOnboarding)
	g.DELETE("/onboarding", h.ResetOnboarding)
	g.GET("/languages", h.ListLanguages)
	g.PUT("/languages", h.SetLanguages)
	g.POST("/languages/swap", h.SwapLanguages)
	g.PUT("/view", h.SetView)
	g.POST("/search", h.Search)
	g.GET("/notebook", h.ListNotebook)
	g.POST("/notebook/toggle", h.ToggleSave)
	g.POST("/notebook/:id/open", h.OpenNotebookItem)
	g.POST("/chat", h.SendChatMessage)
	g.POST("/story", h.GenerateStory)
	g.POST("/flashcards/flip", h.FlashcardFlip)
	g.POST("/flashcards/next", h.FlashcardNext)
	g.POST("/flashcards/prev", h.FlashcardPrev)
}

func (h *SessionHandler) state(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.State())
}

// respond answers an intent with the fresh state. Intents that do not apply
// in the current state are no-ops, not errors.
func (h *SessionHandler) respond(c echo.Context, err error) error {
	if err != nil && !errors.Is(err, service.ErrPrecondition) {
		return writeServiceError(c, err)
	}
	return h.state(c)
}

// GetState returns the session snapshot.
// @Summary Get session state
// @Tags session
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /state [get]
func (h *SessionHandler) GetState(c echo.Context) error {
	return h.state(c)
}

// CompleteOnboarding confirms the language pair and activates the session.
// @Summary Complete onboarding
// @Tags session
// @Accept json
// @Produce json
// @Param languages body languagesRequest true "Language pair"
// @Success 200 {object} model.SessionState
// @Failure 400 {object} errorResponse
// @Router /onboarding [post]
func (h *SessionHandler) CompleteOnboarding(c echo.Context) error {
	var req languagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.session.CompleteOnboarding(c.Request().Context(), req.NativeLang, req.TargetLang); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// ResetOnboarding returns the session to language selection.
// @Summary Reset onboarding
// @Tags session
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /onboarding [delete]
func (h *SessionHandler) ResetOnboarding(c echo.Context) error {
	if err := h.session.ResetOnboarding(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// ListLanguages returns the supported language catalog.
// @Summary List languages
// @Tags session
// @Produce json
// @Success 200 {array} model.Language
// @Router /languages [get]
func (h *SessionHandler) ListLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Languages)
}

// SetLanguages changes the language pair.
// @Summary Set languages
// @Tags session
// @Accept json
// @Produce json
// @Param languages body languagesRequest true "Language pair"
// @Success 200 {object} model.SessionState
// @Failure 400 {object} errorResponse
// @Router /languages [put]
func (h *SessionHandler) SetLanguages(c echo.Context) error {
	var req languagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.session.SetLanguages(c.Request().Context(), req.NativeLang, req.TargetLang); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// SwapLanguages exchanges the native and target languages.
// @Summary Swap languages
// @Tags session
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /languages/swap [post]
func (h *SessionHandler) SwapLanguages(c echo.Context) error {
	if err := h.session.SwapLanguages(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// SetView switches the active screen.
// @Summary Set view
// @Tags session
// @Accept json
// @Produce json
// @Param view body viewRequest true "View mode"
// @Success 200 {object} model.SessionState
// @Failure 400 {object} errorResponse
// @Router /view [put]
func (h *SessionHandler) SetView(c echo.Context) error {
	var req viewRequest
	if err := c.Bind(&req); err != nil || !isValidView(req.View) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid view"})
	}
	if err := h.session.SetView(model.ViewMode(req.View)); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// Search looks up a term. An empty query or a search already in flight
// leaves the state unchanged.
// @Summary Search
// @Tags session
// @Accept json
// @Produce json
// @Param search body searchRequest true "Query"
// @Success 200 {object} model.SessionState
// @Failure 502 {object} errorResponse
// @Router /search [post]
func (h *SessionHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if len(req.Query) > maxTextLen {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query too long"})
	}
	return h.respond(c, h.session.Search(c.Request().Context(), req.Query))
}

// ListNotebook returns the saved items, newest first.
// @Summary List notebook
// @Tags notebook
// @Produce json
// @Success 200 {object} notebookResponse
// @Router /notebook [get]
func (h *SessionHandler) ListNotebook(c echo.Context) error {
	return c.JSON(http.StatusOK, notebookResponse{Items: h.session.State().Notebook})
}

// ToggleSave saves or removes the current result.
// @Summary Toggle save
// @Tags notebook
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /notebook/toggle [post]
func (h *SessionHandler) ToggleSave(c echo.Context) error {
	if err := h.session.ToggleSave(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// OpenNotebookItem shows a saved item as the current result.
// @Summary Open notebook item
// @Tags notebook
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} model.SessionState
// @Failure 404 {object} errorResponse
// @Router /notebook/{id}/open [post]
func (h *SessionHandler) OpenNotebookItem(c echo.Context) error {
	if err := h.session.OpenNotebookItem(c.Param("id")); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// SendChatMessage asks the tutor about the current result.
// @Summary Send chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param message body chatRequest true "Message"
// @Success 200 {object} model.SessionState
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /chat [post]
func (h *SessionHandler) SendChatMessage(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || !validText(req.Text) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid message"})
	}
	if err := h.session.SendChatMessage(c.Request().Context(), req.Text); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// GenerateStory writes a story from the notebook words.
// @Summary Generate story
// @Tags story
// @Produce json
// @Success 200 {object} model.SessionState
// @Failure 409 {object} errorResponse
// @Router /story [post]
func (h *SessionHandler) GenerateStory(c echo.Context) error {
	if err := h.session.GenerateStory(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// FlashcardFlip turns the current card over.
// @Summary Flip flashcard
// @Tags flashcards
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /flashcards/flip [post]
func (h *SessionHandler) FlashcardFlip(c echo.Context) error {
	if err := h.session.FlashcardFlip(); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// FlashcardNext moves to the next card.
// @Summary Next flashcard
// @Tags flashcards
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /flashcards/next [post]
func (h *SessionHandler) FlashcardNext(c echo.Context) error {
	if err := h.session.FlashcardNext(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}

// FlashcardPrev moves to the previous card.
// @Summary Previous flashcard
// @Tags flashcards
// @Produce json
// @Success 200 {object} model.SessionState
// @Router /flashcards/prev [post]
func (h *SessionHandler) FlashcardPrev(c echo.Context) error {
	if err := h.session.FlashcardPrev(c.Request().Context()); err != nil {
		return h.respond(c, err)
	}
	return h.state(c)
}
