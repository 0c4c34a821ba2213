package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inquiry-relay/logging"
	"inquiry-relay/models"
	"inquiry-relay/news"
	"inquiry-relay/utils"
)

const (
	maxBodyBytes   = 1 << 20
	msgInvalidBody = "Invalid request body."
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "inquiry-relay",
		"environment": s.config.App.Env,
	})
}

func (s *Server) contact(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		logging.FromContext(c.Request.Context(), s.logger).Info("rejected contact body", zap.Error(err))
		c.String(http.StatusBadRequest, msgInvalidBody)
		return
	}

	var fields []models.Field
	if c.ContentType() == gin.MIMEPOSTForm {
		fields, err = utils.DecodeFormFields(body)
	} else {
		fields, err = utils.DecodeJSONFields(body)
	}
	if err != nil {
		logging.FromContext(c.Request.Context(), s.logger).Info("rejected contact body", zap.Error(err))
		c.String(http.StatusBadRequest, msgInvalidBody)
		return
	}

	res := s.intake.Contact(c.Request.Context(), contactSubmission(fields))
	c.String(res.Status, res.Message)
}

func (s *Server) quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, msgInvalidBody)
		return
	}

	res := s.intake.Quote(c.Request.Context(), req)
	c.String(res.Status, res.Message)
}

func (s *Server) sendMail(c *gin.Context) {
	var req models.SendRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, msgInvalidBody)
		return
	}

	res := s.intake.SendMail(c.Request.Context(), req)
	c.String(res.Status, res.Message)
}

func (s *Server) latestNews(c *gin.Context) {
	date := news.DateKey(s.now().In(s.location))

	summary, err := s.ticker.Latest(c.Request.Context(), date)
	if err != nil {
		logging.FromContext(c.Request.Context(), s.logger).Error("failed to fetch news summary",
			zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"newsSummary": summary})
}

func contactSubmission(fields []models.Field) models.ContactSubmission {
	return models.ContactSubmission{
		Name:    utils.TextValue(fields, "name"),
		Email:   utils.TextValue(fields, "email"),
		Phone:   utils.TextValue(fields, "phone"),
		Message: utils.TextValue(fields, "message"),
		Source:  utils.TextValue(fields, "source"),
		CC:      utils.TextValue(fields, "cc"),
		Alias:   utils.TextValue(fields, "alias"),
		Send:    utils.TextValue(fields, "send"),
		Fields:  fields,
	}
}
