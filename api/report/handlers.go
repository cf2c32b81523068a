package report

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"

	"DueReportSaas/api"
	"DueReportSaas/api/constants"
	"DueReportSaas/internal/batch"
	"DueReportSaas/internal/checksum"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/export"
	"DueReportSaas/internal/logger"
	"DueReportSaas/internal/notification"
	"DueReportSaas/internal/resource"

	"github.com/gorilla/mux"
)

type Handler struct {
	Processor *batch.Processor
	Spool     *resource.ResourceManager
	Notes     *notification.NotificationService
	Location  *time.Location
	Now       func() time.Time

	PingInterval time.Duration
}

func NewHandler(p *batch.Processor, spool *resource.ResourceManager, notes *notification.NotificationService, loc *time.Location) *Handler {
	if notes == nil {
		notes = notification.NewNotificationService(config.NotificationsPerUser)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Processor: p,
		Spool:     spool,
		Notes:     notes,
		Location:  loc,
		Now:       time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"service": "report",
		"spooled": h.Spool.Len(),
	})
}

// Upload handles POST /report/upload. Every file gets its own result entry;
// only complete reports are spooled for download.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserIDFromCtx(r.Context())

	inputs, status, msg := h.readUploads(r)
	if msg != "" {
		api.RespondWithError(w, status, msg)
		return
	}
	asOf, err := h.asOf(r)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidAsOf)
		return
	}

	outcomes, err := h.Processor.Run(r.Context(), inputs, asOf)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]map[string]interface{}, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			h.Notes.AddNotification(notification.Notification{
				UserID:   userID,
				FileName: o.Name,
				Success:  false,
				Message:  o.Message(),
			})
			results = append(results, map[string]interface{}{
				"file":    o.Name,
				"success": false,
				"error":   o.Message(),
			})
			continue
		}

		id := h.Spool.AddResource(&resource.Artifact{
			Owner:    userID,
			FileName: o.DownloadName,
			Data:     o.Report,
			Checksum: o.Checksum,
		})
		h.Notes.AddNotification(notification.Notification{
			UserID:   userID,
			FileName: o.Name,
			ReportID: id,
			Success:  true,
			Message:  fmt.Sprintf("%s is ready to download", o.DownloadName),
		})
		results = append(results, map[string]interface{}{
			"file":          o.Name,
			"success":       true,
			"report_id":     id,
			"download_name": o.DownloadName,
			"rows":          export.Records(o.Table),
			"checksum":      o.Checksum,
			"download_url":  downloadURL(id, userID),
		})
	}

	logger.Audit(fmt.Sprintf("[Report] user %s uploaded %d files as of %s", userID, len(inputs), asOf.Format(constants.DateFormat)))
	api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": api.IsBulkSuccess(results),
		"as_of":   asOf.Format(constants.DateFormat),
		"results": results,
	})
}

// Preview handles POST /report/preview: one file in, the report grid out.
// Nothing is spooled.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	inputs, status, msg := h.readUploads(r)
	if msg != "" {
		api.RespondWithError(w, status, msg)
		return
	}
	if len(inputs) != 1 {
		api.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf(constants.ErrTooManyFiles, 1))
		return
	}
	asOf, err := h.asOf(r)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidAsOf)
		return
	}

	outcomes, err := h.Processor.Run(r.Context(), inputs, asOf)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	o := outcomes[0]
	if !o.OK() {
		api.RespondWithError(w, http.StatusUnprocessableEntity, o.Message())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"file":           o.Name,
		"as_of":          asOf.Format(constants.DateFormat),
		"rows":           export.Records(o.Table),
		"placeholder":    o.Table.Placeholder,
		"unallocated":    o.Table.Unallocated.StringFixed(2),
		"skipped_values": o.Table.SkippedValues,
		"checksum":       o.Checksum,
	})
}

// Download handles GET /report/download/{id}.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserIDFromCtx(r.Context())
	id := mux.Vars(r)["id"]

	a, ok := h.Spool.GetResource(id)
	if !ok || a.Owner != userID {
		api.RespondWithError(w, http.StatusNotFound, constants.ErrReportNotFound)
		return
	}

	etag := `"` + a.Checksum + `"`
	if inm := r.Header.Get("If-None-Match"); inm != "" && checksum.NewChecksumMatcher(inm).MatchSum(a.Checksum) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.FileName))
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		api.LogError("download %s: %v", id, err)
	}
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserIDFromCtx(r.Context())
	api.RespondWithPayload(w, true, "", h.Notes.GetNotifications(userID))
}

func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserIDFromCtx(r.Context())
	h.Notes.ClearNotifications(userID)
	api.RespondWithPayload(w, true, "", nil)
}

// readUploads collects the "files" and "file" parts. On failure it returns
// the HTTP status and a user-facing message.
func (h *Handler) readUploads(r *http.Request) ([]batch.Input, int, string) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		return nil, http.StatusBadRequest, constants.ErrInvalidMultipart
	}

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File[constants.FieldFiles]...)
	headers = append(headers, r.MultipartForm.File[constants.FieldFile]...)
	if len(headers) == 0 {
		return nil, http.StatusBadRequest, constants.ErrNoFilesUploaded
	}
	if h.Processor.MaxFiles > 0 && len(headers) > h.Processor.MaxFiles {
		return nil, http.StatusBadRequest, fmt.Sprintf(constants.ErrTooManyFiles, h.Processor.MaxFiles)
	}

	inputs := make([]batch.Input, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			api.LogError("read %s: %v", fh.Filename, err)
			return nil, http.StatusBadRequest, fmt.Sprintf(constants.ErrFileRead, fh.Filename)
		}
		inputs = append(inputs, batch.Input{Name: fh.Filename, Data: data})
	}
	return inputs, 0, ""
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// asOf reads the report date from the form, then REPORT_AS_OF, then today.
func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	raw := r.FormValue(constants.FieldAsOf)
	if raw == "" {
		raw = os.Getenv(config.AsOfEnv)
	}
	return config.ResolveAsOf(raw, h.Now(), h.Location)
}

func downloadURL(id, userID string) string {
	q := url.Values{}
	q.Set(constants.FieldUserID, userID)
	return "/report/download/" + url.PathEscape(id) + "?" + q.Encode()
}
