// Package files implements the presigned-upload-URL endpoint: it records
// the metadata for each requested file, then returns one presigned PUT URL
// per file grouped by log name.
package files

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"mlop-ingest/internal/apperror"
	"mlop-ingest/internal/filetype"
	"mlop-ingest/internal/ingest"
)

// presigner narrows *objectstore.Presigner down to the one method this
// handler needs, so tests can fake it without a live S3-compatible endpoint.
type presigner interface {
	PresignPut(ctx context.Context, key, contentType string, fileSize int64) (string, error)
}

// FileUploadInfo is one entry of the presign request body.
type FileUploadInfo struct {
	LogName  string         `json:"logName" binding:"required"`
	FileName string         `json:"fileName" binding:"required"`
	FileSize uint64         `json:"fileSize"`
	FileType filetype.Type  `json:"fileType"`
	Step     uint64         `json:"step"`
	Time     uint64         `json:"time"`
}

// FileUploadRequest is the body of POST /files.
type FileUploadRequest struct {
	Files []FileUploadInfo `json:"files" binding:"required,min=1,dive"`
}

// PresignedURLResponse groups the resulting URLs by log name, each entry
// naming the file and the URL to PUT it to.
type PresignedURLResponse map[string][]map[string]string

type Handler struct {
	presigner presigner
	rowChan   chan<- ingest.FilesRow
}

func NewHandler(presigner presigner, rowChan chan<- ingest.FilesRow) *Handler {
	return &Handler{presigner: presigner, rowChan: rowChan}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/files", h.GeneratePresignedURLs)
}

func (h *Handler) GeneratePresignedURLs(c *gin.Context) {
	sendError := c.MustGet("sendError").(func(*apperror.Error))
	sendJSON := c.MustGet("sendJSON").(func(int, any))

	var req FileUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(apperror.New(apperror.InvalidInput, "invalid file upload request: "+err.Error()))
		return
	}

	tenantID := c.GetString("tenantId")
	enrichment, eerr := ingest.EnrichmentFromHeaders(tenantID, c.Request.Header)
	if eerr != nil {
		sendError(eerr)
		return
	}

	ctx := c.Request.Context()

	for _, file := range req.Files {
		row := ingest.BuildFilesRow(file.LogName, file.FileName, file.FileType.Extension(), file.FileSize, file.Step, file.Time, enrichment)

		select {
		case h.rowChan <- row:
		case <-ctx.Done():
			sendError(apperror.New(apperror.StreamProcessingError, "request cancelled before file metadata could be queued"))
			return
		}
	}

	// Presign every file concurrently, matching the original's join_all over
	// one future per file, rather than round-tripping to the object store
	// sequentially.
	urls := make([]string, len(req.Files))
	errs := make([]error, len(req.Files))
	var wg sync.WaitGroup
	for i, file := range req.Files {
		wg.Add(1)
		go func(i int, file FileUploadInfo) {
			defer wg.Done()
			url, err := h.presign(ctx, enrichment, file)
			urls[i] = url
			errs[i] = err
		}(i, file)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			sendError(apperror.New(apperror.PresignFailed, err.Error()))
			return
		}
	}

	response := make(PresignedURLResponse)
	for i, file := range req.Files {
		response[file.LogName] = append(response[file.LogName], map[string]string{file.FileName: urls[i]})
	}

	sendJSON(http.StatusOK, response)
}

func (h *Handler) presign(ctx context.Context, e ingest.Enrichment, file FileUploadInfo) (string, error) {
	key := fmt.Sprintf("%s/%s/%d/%s/%s", e.TenantID, e.ProjectName, e.RunID, file.LogName, file.FileName)
	return h.presigner.PresignPut(ctx, key, file.FileType.MIME(), int64(file.FileSize))
}
