package user

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/controller"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/service"
	"github.com/lshigami/placementai/internal/session"
	"github.com/lshigami/placementai/internal/storage"
	"github.com/rs/zerolog/log"
)

type CandidateController struct {
	resumeService  service.ResumeService
	advisorService service.AdvisorService
	maxUploadBytes int64
}

func NewCandidateController(rs service.ResumeService, as service.AdvisorService, maxUploadBytes int64) *CandidateController {
	return &CandidateController{
		resumeService:  rs,
		advisorService: as,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadPage shows the upload form and, when the caller has uploaded before,
// their latest assessment with the advisor form.
func (c *CandidateController) UploadPage(ctx *gin.Context) {
	data := gin.H{"Title": "Upload"}
	st := session.FromContext(ctx)
	latest, err := c.resumeService.LatestForEmail(ctx.Request.Context(), st.UserEmail)
	switch {
	case err == nil:
		view, err := service.NewAssessmentView(latest)
		if err != nil {
			controller.RenderError(ctx, err, "UploadPage: failed to build view")
			return
		}
		data["Result"] = view
	case !errors.Is(err, service.ErrNoSubmission):
		log.Warn().Err(err).Msg("UploadPage: could not load latest submission")
	}
	controller.Render(ctx, http.StatusOK, "upload.html", data)
}

// Upload handles POST /upload: validates the form, stores the resume, runs
// the assessment and shows the result.
func (c *CandidateController) Upload(ctx *gin.Context) {
	var form dto.UploadForm
	if err := ctx.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Msg("Upload: failed to bind form")
	}

	fh, err := ctx.FormFile("resume")
	if err != nil || fh.Filename == "" {
		controller.RedirectWithFlash(ctx, session.FlashDanger, "All fields required", "/upload")
		return
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Skills) == "" {
		controller.RedirectWithFlash(ctx, session.FlashDanger, "All fields required", "/upload")
		return
	}
	if !service.ValidateResumeFilename(fh.Filename) {
		controller.RedirectWithFlash(ctx, session.FlashDanger, "Only PDF resumes are allowed", "/upload")
		return
	}
	if fh.Size > c.maxUploadBytes {
		controller.RedirectWithFlash(ctx, session.FlashDanger, tooLargeMessage(c.maxUploadBytes), "/upload")
		return
	}

	data, err := readUpload(fh, c.maxUploadBytes)
	if err != nil {
		controller.RenderError(ctx, err, "Upload: failed to read resume")
		return
	}

	view, err := c.resumeService.Submit(ctx.Request.Context(), service.ResumeSubmission{
		Name:     form.Name,
		Email:    form.Email,
		Skills:   form.Skills,
		Filename: fh.Filename,
		Data:     data,
	})
	switch {
	case errors.Is(err, service.ErrMissingFields):
		controller.RedirectWithFlash(ctx, session.FlashDanger, "All fields required", "/upload")
		return
	case errors.Is(err, service.ErrInvalidFileType):
		controller.RedirectWithFlash(ctx, session.FlashDanger, "Only PDF resumes are allowed", "/upload")
		return
	case errors.Is(err, service.ErrFileTooLarge):
		controller.RedirectWithFlash(ctx, session.FlashDanger, tooLargeMessage(c.maxUploadBytes), "/upload")
		return
	case err != nil:
		controller.RenderError(ctx, err, "Upload: service error")
		return
	}

	if view.Fallback {
		session.FromContext(ctx).AddFlash(session.FlashWarning, "The AI assessment is unavailable right now; showing default results.")
	} else {
		session.FromContext(ctx).AddFlash(session.FlashSuccess, "Resume analyzed successfully")
	}
	controller.Render(ctx, http.StatusOK, "upload.html", gin.H{"Title": "Upload", "Result": view})
}

// Ask handles POST /ask using the caller's most recent submission as context.
func (c *CandidateController) Ask(ctx *gin.Context) {
	var form dto.AskForm
	if err := ctx.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Msg("Ask: failed to bind form")
	}
	question := strings.TrimSpace(form.Question)
	if question == "" {
		controller.RedirectWithFlash(ctx, session.FlashWarning, "Please enter a question.", "/upload")
		return
	}

	st := session.FromContext(ctx)
	latest, err := c.resumeService.LatestForEmail(ctx.Request.Context(), st.UserEmail)
	if errors.Is(err, service.ErrNoSubmission) {
		controller.RedirectWithFlash(ctx, session.FlashWarning, "No previous resume found. Please upload first.", "/upload")
		return
	}
	if err != nil {
		controller.RenderError(ctx, err, "Ask: failed to load latest submission")
		return
	}

	answer := c.advisorService.Ask(ctx.Request.Context(), question, latest)
	view, err := service.NewAssessmentView(latest)
	if err != nil {
		controller.RenderError(ctx, err, "Ask: failed to build view")
		return
	}
	controller.Render(ctx, http.StatusOK, "upload.html", gin.H{
		"Title":    "Upload",
		"Result":   view,
		"Question": question,
		"Answer":   answer,
	})
}

// ServeResume streams a stored resume inline.
func (c *CandidateController) ServeResume(ctx *gin.Context) {
	filename := ctx.Param("filename")
	rc, size, err := c.resumeService.OpenResume(ctx.Request.Context(), filename)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Resume not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("ServeResume: failed to open resume")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load resume"})
		return
	}
	defer rc.Close()

	ctx.DataFromReader(http.StatusOK, size, "application/pdf", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", filename),
	})
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("Resume is too large (max %d MB)", limit>>20)
}
