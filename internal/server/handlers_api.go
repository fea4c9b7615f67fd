package server

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/1996Rosy/server-app/internal/errors"
)

type createDebateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type createDebateResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Administrator string `json:"administrator"`
}

type publishQuestionRequest struct {
	Title          string   `json:"title"`
	Answers        []string `json:"answers"`
	IsOpenQuestion bool     `json:"isOpenQuestion"`
}

func (s *Server) handleCreateDebate(c echo.Context) error {
	var req createDebateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid debate request")
	}

	administrator, _ := c.Get("adminUsername").(string)
	session, err := s.service.CreateDebate(c.Request().Context(), req.Title, req.Description, administrator)
	if err != nil {
		return err
	}

	return c.JSON(201, createDebateResponse{
		ID:            session.ID(),
		Title:         session.Title(),
		Description:   session.Description(),
		Administrator: session.Administrator(),
	})
}

func (s *Server) handlePublishQuestion(c echo.Context) error {
	debateID, err := parseDebateID(c)
	if err != nil {
		return err
	}

	var req publishQuestionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid question request")
	}

	view, err := s.service.PublishQuestion(c.Request().Context(), debateID, req.Title, req.Answers, req.IsOpenQuestion)
	if err != nil {
		return err
	}
	return c.JSON(201, view)
}

func (s *Server) handleListQuestions(c echo.Context) error {
	debateID, err := parseDebateID(c)
	if err != nil {
		return err
	}

	questions, err := s.service.ListQuestions(debateID)
	if err != nil {
		return err
	}
	return c.JSON(200, questions)
}

func (s *Server) handlePersistDebate(c echo.Context) error {
	debateID, err := parseDebateID(c)
	if err != nil {
		return err
	}

	if err := s.service.PersistDebate(c.Request().Context(), debateID); err != nil {
		return err
	}
	return c.NoContent(204)
}

func parseDebateID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ValidationError("invalid debate id")
	}
	return id, nil
}
