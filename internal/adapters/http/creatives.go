package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/tabular"
	"github.com/jpp0ca/DV360Trackers-API/internal/app"
	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateFilename = "dv360_trackers_to_edit.xlsx"
)

// TrackerEditRequest stages changes for one creative. Either EventType with
// URLs or explicit Changes rows must be given. Each URL is appended as a new
// tracker of that type next to the ones already present; newlines split a
// single entry.
type TrackerEditRequest struct {
	EventType string                `json:"event_type" example:"Impression"`
	URLs      []string              `json:"urls" example:"https://track.example.com/imp"`
	Changes   []domain.StagedChange `json:"changes"`
	DryRun    bool                  `json:"dry_run"`
}

func (r TrackerEditRequest) changes() ([]domain.StagedChange, error) {
	out := append([]domain.StagedChange(nil), r.Changes...)
	if len(r.URLs) > 0 && strings.TrimSpace(r.EventType) == "" {
		return nil, errBadRequest("event_type is required when urls are given")
	}
	for _, entry := range r.URLs {
		for _, u := range strings.Split(entry, "\n") {
			if u = strings.TrimSpace(u); u != "" {
				out = append(out, domain.StagedChange{EventType: r.EventType, NewURL: u, Append: true})
			}
		}
	}
	if len(out) == 0 {
		return nil, errBadRequest("no changes given: send event_type with urls, or changes")
	}
	return out, nil
}

// ExportRequest names the creatives to put into a template.
type ExportRequest struct {
	AdvertiserID string   `json:"advertiser_id" binding:"required" example:"1234567"`
	CreativeIDs  []string `json:"creative_ids" binding:"required,min=1"`
}

// GetCreative returns a creative with its trackers labeled.
//
//	@Summary		Get creative trackers
//	@Description	Fetches the creative from DV360 and returns its third-party URLs with event labels and the detected variant.
//	@Tags			creatives
//	@Produce		json
//	@Param			advertiserId	path		string	true	"Advertiser ID"
//	@Param			creativeId		path		string	true	"Creative ID"
//	@Success		200				{object}	ports.CreativeView
//	@Failure		401				{object}	ErrorResponse
//	@Failure		502				{object}	ErrorResponse
//	@Router			/api/v1/advertisers/{advertiserId}/creatives/{creativeId} [get]
func (h *Handler) GetCreative(c *gin.Context) {
	view, err := h.service.GetCreative(c.Request.Context(), c.Param("advertiserId"), c.Param("creativeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateTrackers is the single-creative editor.
//
//	@Summary		Update creative trackers
//	@Description	Merges the staged changes into the creative's current trackers and patches only thirdPartyUrls.
//	@Description	With dry_run the reconciliation result is returned and nothing is sent to DV360.
//	@Tags			creatives
//	@Accept			json
//	@Produce		json
//	@Param			advertiserId	path		string				true	"Advertiser ID"
//	@Param			creativeId		path		string				true	"Creative ID"
//	@Param			request			body		TrackerEditRequest	true	"Staged changes"
//	@Success		200				{object}	domain.BatchItemResult
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		422				{object}	ErrorResponse
//	@Failure		502				{object}	ErrorResponse
//	@Router			/api/v1/advertisers/{advertiserId}/creatives/{creativeId}/trackers [post]
func (h *Handler) UpdateTrackers(c *gin.Context) {
	var req TrackerEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest("invalid request body: "+err.Error()))
		return
	}
	changes, err := req.changes()
	if err != nil {
		writeError(c, err)
		return
	}

	item := domain.BatchItem{
		AdvertiserID: c.Param("advertiserId"),
		CreativeID:   c.Param("creativeId"),
		Changes:      changes,
	}
	result, err := h.service.UpdateCreative(c.Request.Context(), item, req.DryRun)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BulkUpload runs a batch from an uploaded CSV or XLSX file.
//
//	@Summary		Bulk update from file
//	@Description	Accepts the edited template (creative_id, creative_name, event_type, existing_url, new_url, optional advertiser_id)
//	@Description	or the legacy advertiser_id, creative_id, tracker_type, tracker_url layout. The whole file is validated before any call to DV360.
//	@Tags			bulk
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file			formData	file	true	"CSV or XLSX file"
//	@Param			advertiser_id	formData	string	false	"Advertiser for rows without one"
//	@Param			dry_run			formData	bool	false	"Plan only"
//	@Success		200				{object}	domain.BatchReport
//	@Failure		400				{object}	ErrorResponse
//	@Router			/api/v1/bulk [post]
func (h *Handler) BulkUpload(c *gin.Context) {
	items, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	dryRun, _ := strconv.ParseBool(c.PostForm("dry_run"))
	var report domain.BatchReport
	if dryRun {
		report = h.service.Plan(c.Request.Context(), items)
	} else {
		report = h.service.RunBatch(c.Request.Context(), items)
	}

	h.logger.Info("bulk upload processed",
		zap.String("run_id", report.RunID),
		zap.Int("items", len(report.Items)),
		zap.Int("failed", report.Failed),
	)
	c.JSON(http.StatusOK, report)
}

// ExportTemplate builds the editable sheet for a list of creatives.
//
//	@Summary		Export tracker template
//	@Description	Fetches every creative and returns an XLSX sheet with one row per existing tracker, ready to edit and upload.
//	@Tags			bulk
//	@Accept			json
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			request	body		ExportRequest	true	"Advertiser and creative ids"
//	@Success		200		{file}		file
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/v1/export [post]
func (h *Handler) ExportTemplate(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest("invalid request body: "+err.Error()))
		return
	}

	rows, err := h.service.ExportTemplate(c.Request.Context(), req.AdvertiserID, req.CreativeIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := tabular.WriteTemplateXLSX(&buf, rows); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// readUpload parses the multipart "file" field into batch items.
func (h *Handler) readUpload(c *gin.Context) ([]domain.BatchItem, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errBadRequest("multipart field 'file' is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errBadRequest("cannot read upload: " + err.Error())
	}
	defer f.Close()

	rows, err := tabular.ReadFile(fh.Filename, f, tabular.WithMaxRows(h.maxUploadRows))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errBadRequest("file has no data rows")
	}
	return app.GroupRows(rows, c.PostForm("advertiser_id"))
}
