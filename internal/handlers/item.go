package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/services"
	"lostfound/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipart 除图片外的表单字段预留空间
const formOverhead = 1 << 20

type ItemHandler struct {
	items     *services.ItemService
	maxUpload int64
	logger    *zap.SugaredLogger
}

func NewItemHandler(items *services.ItemService, maxUpload int64, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{items: items, maxUpload: maxUpload, logger: logger}
}

func (h *ItemHandler) Home(c *gin.Context) {
	Render(c, http.StatusOK, "index.html", gin.H{"Title": "Lost & Found"})
}

// ShowReport GET /report?type=lost|found
func (h *ItemHandler) ShowReport(c *gin.Context) {
	kind := models.Kind(c.Query("type"))
	if !kind.Valid() {
		kind = models.KindLost
	}
	h.renderForm(c, http.StatusOK, services.ReportForm{Type: string(kind)}, "")
}

// Report POST /report
func (h *ItemHandler) Report(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+formOverhead)
	values, err := h.parseForm(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderForm(c, http.StatusRequestEntityTooLarge, services.ReportForm{}, h.tooLargeMessage())
			return
		}
		RenderError(c, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}
	if mf := c.Request.MultipartForm; mf != nil {
		defer mf.RemoveAll()
	}
	form := services.ParseReportForm(values)

	upload, closeFile, err := h.upload(c)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, form, err.Error())
		return
	}
	defer closeFile()

	item, err := h.items.Submit(c.Request.Context(), form, upload, user)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			h.renderForm(c, http.StatusBadRequest, form, "Please fill in "+fieldLabel(ve.Field)+".")
			return
		}
		_ = c.Error(err)
		RenderError(c, http.StatusInternalServerError, "We could not save your report. Please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/items?reported="+url.QueryEscape(item.ID))
}

// List GET /items?tag=
func (h *ItemHandler) List(c *gin.Context) {
	tag := c.Query("tag")
	items, err := h.items.List(c.Request.Context(), tag)
	if err != nil {
		_ = c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load items. Please try again.")
		return
	}

	Render(c, http.StatusOK, "items.html", gin.H{
		"Title":         "Reported Items",
		"Items":         items,
		"Tag":           tag,
		"SuggestedTags": services.SuggestedTags,
		"Reported":      c.Query("reported") != "",
	})
}

func (h *ItemHandler) parseForm(c *gin.Context) (url.Values, error) {
	err := c.Request.ParseMultipartForm(32 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// upload 取出可选的 image 文件；未上传返回 nil
func (h *ItemHandler) upload(c *gin.Context) (*services.Upload, func(), error) {
	noop := func() {}
	file, header, err := c.Request.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errors.New("Could not read the uploaded image.")
	}
	if header.Size > h.maxUpload {
		file.Close()
		return nil, noop, errors.New(h.tooLargeMessage())
	}
	return &services.Upload{Reader: file, Filename: header.Filename}, func() { file.Close() }, nil
}

func (h *ItemHandler) tooLargeMessage() string {
	return fmt.Sprintf("Images must be smaller than %d MB.", h.maxUpload>>20)
}

func (h *ItemHandler) renderForm(c *gin.Context, code int, form services.ReportForm, message string) {
	selected := map[string]bool{}
	for _, t := range form.Tags {
		selected[t] = true
	}
	Render(c, code, "report.html", gin.H{
		"Title":         "Report an Item",
		"Form":          form,
		"SelectedTags":  selected,
		"SuggestedTags": services.SuggestedTags,
		"Error":         message,
	})
}

func fieldLabel(field string) string {
	switch field {
	case "type":
		return "whether the item was lost or found"
	case "reportedBy":
		return "your name (sign in again)"
	}
	return "the " + field
}
