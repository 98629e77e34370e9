package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	maxUploadSize   = 10 << 20
	// multipart framing around the file part
	maxFormOverhead = 1 << 20
)

var unsupportedTypeDetail = fmt.Sprintf("Unsupported file type. Please upload one of: %s.",
	strings.Join(document.Supported, ", "))

type handler struct {
	analyzer Analyzer
	logger   *zap.Logger
}

type analyzeResponse struct {
	Filename string `json:"filename"`
	RawText  string `json:"raw_text"`
	*analysis.Analysis
}

type matchRequest struct {
	ResumeSkills       []string `json:"resume_skills" binding:"required"`
	JobDescriptionText *string  `json:"job_description_text" binding:"required"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Resume analyzer API is running",
	})
}

func (h *handler) analyze(c *gin.Context) {
	if c.Request.ContentLength > maxUploadSize+maxFormOverhead {
		h.fail(c, http.StatusRequestEntityTooLarge, "resume file is too large", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+maxFormOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, "resume file is too large", err)
			return
		}
		h.fail(c, http.StatusBadRequest, "a resume file is required in the 'file' form field", err)
		return
	}

	log := logger.ForRequest(h.logger, c.GetString(requestIDKey), fileHeader.Filename)

	if fileHeader.Size > maxUploadSize {
		h.fail(c, http.StatusRequestEntityTooLarge, "resume file is too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, "could not read the uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "could not read the uploaded file", err)
		return
	}

	text, err := document.Extract(fileHeader.Filename, data)
	switch {
	case errors.Is(err, document.ErrUnsupportedType):
		h.fail(c, http.StatusBadRequest, unsupportedTypeDetail, err)
		return
	case errors.Is(err, document.ErrEmptyText):
		h.fail(c, http.StatusUnprocessableEntity, "Could not extract text from the document.", err)
		return
	case err != nil:
		h.fail(c, http.StatusUnprocessableEntity, "Could not read the document.", err)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "analysis failed", err)
		return
	}

	log.Info("resume analyzed",
		zap.Int("skills", len(result.Parsed.Skills)),
		zap.Int("warnings", len(result.Warnings)),
	)

	c.JSON(http.StatusOK, analyzeResponse{
		Filename: fileHeader.Filename,
		RawText:  text,
		Analysis: result,
	})
}

func (h *handler) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "resume_skills and job_description_text are required", err)
		return
	}

	c.JSON(http.StatusOK, h.analyzer.MatchSkills(req.ResumeSkills, *req.JobDescriptionText))
}

func (h *handler) fail(c *gin.Context, status int, detail string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}
