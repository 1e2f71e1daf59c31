package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/listinglens/backend/internal/domain"
	"github.com/listinglens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysisService *usecase.AnalysisService
	titleService    *usecase.TitleService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysisService *usecase.AnalysisService, titleService *usecase.TitleService) *Handler {
	return &Handler{
		analysisService: analysisService,
		titleService:    titleService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "listinglens-backend",
		"version": "1.0.0",
	})
}

// AnalyzeUploads accepts research CSV exports as a multipart upload under the
// "files" field and responds with the grouped similarity analysis.
func (h *Handler) AnalyzeUploads(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "no files uploaded",
		})
		return
	}

	var files []domain.UploadedFile
	for _, header := range form.File["files"] {
		reader, err := header.Open()
		if err != nil {
			log.Printf("[HTTP] cannot open upload %q: %v", header.Filename, err)
			continue
		}
		content, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			log.Printf("[HTTP] cannot read upload %q: %v", header.Filename, err)
			continue
		}
		files = append(files, domain.UploadedFile{Name: header.Filename, Content: content})
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), files)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFiles):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "no files uploaded",
			})
		case errors.Is(err, domain.ErrNoProducts):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "no valid product data in uploaded files",
			})
		default:
			log.Printf("[HTTP] analysis failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "analysis failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScrapeTitles accepts a listing result-page URL and responds with the
// scraped titles and their word-frequency report.
func (h *Handler) ScrapeTitles(c *gin.Context) {
	var req domain.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "a listing URL is required",
		})
		return
	}

	report, err := h.titleService.ScrapeTitles(c.Request.Context(), req.URL, req.MaxPages)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "please provide a valid eBay listing URL",
			})
		case errors.Is(err, domain.ErrNoTitles):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "no listing titles found at the given URL",
			})
		case errors.Is(err, domain.ErrPageFetch):
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   "listing site is unreachable",
			})
		default:
			log.Printf("[HTTP] scrape failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "scrape failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
