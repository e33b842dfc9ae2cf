package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/tabular"
	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// StartSessionRequest seeds a session with items. A multipart upload with
// a "file" field may be sent instead.
type StartSessionRequest struct {
	Items []domain.BatchItem `json:"items"`
}

// StageRequest adds changes for one creative to a session.
type StageRequest struct {
	AdvertiserID string `json:"advertiser_id" binding:"required" example:"1234567"`
	CreativeID   string `json:"creative_id" binding:"required" example:"987654321"`
	TrackerEditRequest
}

// StartSession opens a staged edit session.
//
//	@Summary		Start session
//	@Description	Opens a session in the staged phase, from a JSON item list or an uploaded CSV/XLSX file.
//	@Tags			sessions
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			request			body		StartSessionRequest	false	"Initial items"
//	@Param			file			formData	file				false	"CSV or XLSX file"
//	@Param			advertiser_id	formData	string				false	"Advertiser for rows without one"
//	@Success		201				{object}	domain.Session
//	@Failure		400				{object}	ErrorResponse
//	@Router			/api/v1/sessions [post]
func (h *Handler) StartSession(c *gin.Context) {
	var items []domain.BatchItem
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var err error
		if items, err = h.readUpload(c); err != nil {
			writeError(c, err)
			return
		}
	} else if c.Request.ContentLength != 0 {
		var req StartSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errBadRequest("invalid request body: "+err.Error()))
			return
		}
		items = req.Items
	}

	sess, err := h.service.StartSession(c.Request.Context(), items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// GetSession returns a session.
//
//	@Summary		Get session
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	domain.Session
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/v1/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// StageTrackers adds changes for one creative.
//
//	@Summary		Stage trackers
//	@Description	Appends changes for a creative. A validated session returns to the staged phase.
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			request	body		StageRequest	true	"Changes for one creative"
//	@Success		200		{object}	domain.Session
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/v1/sessions/{id}/trackers [post]
func (h *Handler) StageTrackers(c *gin.Context) {
	var req StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest("invalid request body: "+err.Error()))
		return
	}
	changes, err := req.changes()
	if err != nil {
		writeError(c, err)
		return
	}

	sess, err := h.service.StageTrackers(c.Request.Context(), c.Param("id"), domain.BatchItem{
		AdvertiserID: req.AdvertiserID,
		CreativeID:   req.CreativeID,
		Changes:      changes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ValidateSession plans the staged changes.
//
//	@Summary		Validate session
//	@Description	Fetches every staged creative and computes the reconciliation plan without patching.
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	domain.Session
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/v1/sessions/{id}/validate [post]
func (h *Handler) ValidateSession(c *gin.Context) {
	sess, err := h.service.ValidateSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// CommitSession applies a validated session.
//
//	@Summary		Commit session
//	@Description	Sends the staged changes to DV360. Only a validated session can be committed.
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	domain.Session
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/v1/sessions/{id}/commit [post]
func (h *Handler) CommitSession(c *gin.Context) {
	sess, err := h.service.CommitSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SessionReport downloads the classification report of a session: the
// commit report once committed, the plan before that.
//
//	@Summary		Session report
//	@Tags			sessions
//	@Produce		json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			id		path		string	true	"Session ID"
//	@Param			format	query		string	false	"Output format"	Enums(json, csv, xlsx)
//	@Success		200		{array}		domain.ReportRow
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/v1/sessions/{id}/report [get]
func (h *Handler) SessionReport(c *gin.Context) {
	sess, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	report := sess.Report
	if report == nil {
		report = sess.Plan
	}
	if report == nil {
		writeError(c, &phaseError{msg: "session " + sess.ID + " has no plan yet, validate it first"})
		return
	}
	writeReport(c, "session-"+sess.ID, *report)
}

// ClearSession deletes a session.
//
//	@Summary		Delete session
//	@Tags			sessions
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Router			/api/v1/sessions/{id} [delete]
func (h *Handler) ClearSession(c *gin.Context) {
	if err := h.service.ClearSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRuns lists stored batch runs.
//
//	@Summary		List runs
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query	int	false	"Maximum runs"	default(50)
//	@Success		200		{array}	domain.RunSummary
//	@Router			/api/v1/runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		writeError(c, errBadRequest("limit must be a positive integer"))
		return
	}
	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun returns a stored batch report.
//
//	@Summary		Get run
//	@Tags			runs
//	@Produce		json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			id		path		string	true	"Run ID"
//	@Param			format	query		string	false	"json returns the full report, csv and xlsx the classification rows"	Enums(json, csv, xlsx)
//	@Success		200		{object}	domain.BatchReport
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/v1/runs/{id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	report, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if f := strings.ToLower(c.Query("format")); f == "" || f == "json" {
		c.JSON(http.StatusOK, report)
		return
	}
	writeReport(c, "run-"+report.RunID, *report)
}

type phaseError struct{ msg string }

func (e *phaseError) Error() string { return e.msg }
func (e *phaseError) Unwrap() error { return domain.ErrInvalidPhase }

// writeReport renders the classification rows in the ?format= requested.
func writeReport(c *gin.Context, name string, report domain.BatchReport) {
	rows := report.Rows()
	if rows == nil {
		rows = []domain.ReportRow{}
	}

	var buf bytes.Buffer
	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "json":
		c.JSON(http.StatusOK, rows)
	case "csv":
		if err := tabular.WriteReportCSV(&buf, rows); err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := tabular.WriteReportXLSX(&buf, rows, report.Warnings()...); err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	default:
		writeError(c, errBadRequest("format must be json, csv or xlsx"))
	}
}
