package api

import (
	"bytes"
	"innervoice/app/service/conversation"
	"innervoice/app/service/memory"
	"innervoice/app/service/session"
	"innervoice/app/service/transcribe"

	"github.com/gofiber/fiber/v2"
)

type sessionView struct {
	ID       string                `json:"id"`
	Messages []session.ChatMessage `json:"messages"`
}

type voiceView struct {
	Transcript string              `json:"transcript"`
	Result     *session.TurnResult `json:"result"`
}

type memoryView struct {
	Facts        []memory.Fact `json:"facts"`
	ResetPending bool          `json:"reset_pending"`
}

type languageView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type sendRequest struct {
	Content  string `json:"content"`
	Language string `json:"language"`
}

type postRequest struct {
	Content string `json:"content"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) languages(c *fiber.Ctx) error {
	result := make([]languageView, 0, len(conversation.Languages))
	for _, code := range conversation.Languages {
		result = append(result, languageView{Code: code, Name: conversation.LanguageName(code)})
	}

	return c.JSON(result)
}

func (s *Server) session(c *fiber.Ctx) (*session.Session, error) {
	return s.services.Sessions.Get(c.Params("id"))
}

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.services.Sessions.Create()

	return c.Status(fiber.StatusCreated).JSON(sessionView{
		ID:       sess.ID,
		Messages: sess.Messages(),
	})
}

func (s *Server) listMessages(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	return c.JSON(sessionView{
		ID:       sess.ID,
		Messages: sess.Messages(),
	})
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var req sendRequest
	if err = c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := sess.Send(c.UserContext(), req.Content, req.Language)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// sendVoice accepts a raw mono 16kHz LINEAR16 body and sends its transcript
// as the next user message.
func (s *Server) sendVoice(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	if s.services.Voice == nil || !s.services.Voice.Enabled() {
		return transcribe.ErrDisabled
	}
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "audio body is empty")
	}

	lang := c.Query("language")

	transcript, err := s.services.Voice.Transcribe(c.UserContext(), bytes.NewReader(c.Body()), lang)
	if err != nil {
		return err
	}

	result, err := sess.Send(c.UserContext(), transcript, lang)
	if err != nil {
		return err
	}

	return c.JSON(voiceView{
		Transcript: transcript,
		Result:     result,
	})
}

func (s *Server) deleteConversation(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	sess.DeleteConversation()

	return c.JSON(sessionView{
		ID:       sess.ID,
		Messages: sess.Messages(),
	})
}

func (s *Server) memory(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	return c.JSON(memoryView{
		Facts:        sess.Memory(),
		ResetPending: sess.ResetPending(),
	})
}

func (s *Server) moods(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	entries, err := s.services.Journal.List(c.UserContext(), sess.ID)
	if err != nil {
		return err
	}

	return c.JSON(entries)
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	d, err := s.services.Journal.Dashboard(c.UserContext(), sess.ID)
	if err != nil {
		return err
	}

	return c.JSON(d)
}

func (s *Server) listPosts(c *fiber.Ctx) error {
	posts, err := s.services.Board.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(posts)
}

func (s *Server) createPost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	post, err := s.services.Board.Post(c.UserContext(), req.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) deleteAllData(c *fiber.Ctx) error {
	report, err := s.services.Privacy.DeleteAllData(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(report)
}
