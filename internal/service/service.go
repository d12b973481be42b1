// Package service serves the registration form, the listing and the admin actions over HTTP.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/registration-form/internal/export"
	"gitlab.com/dirk.krummacker/registration-form/internal/form"
	"gitlab.com/dirk.krummacker/registration-form/internal/listing"
	"gitlab.com/dirk.krummacker/registration-form/internal/mirror"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	public "gitlab.com/dirk.krummacker/registration-form/pkg/model"
)

// Messages shown to the visitor.
const (
	msgNotAuthorized = "You are not authorized to delete data."
	msgDeleted       = "All data deleted."
	msgIDsReset      = "ID values reset."
	msgStorageFailed = "Не удалось выполнить операцию с базой данных."
	msgMirrorFailed  = "Данные сохранены локально, но не переданы в Google Таблицу."
)

// RecordStore is the part of the record store the handlers need.
type RecordStore interface {
	Insert(ctx context.Context, record model.Record) (int64, error)
	Get(ctx context.Context, id int64) (model.Record, error)
	ListAll(ctx context.Context) ([]model.Record, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// Options configure the service.
type Options struct {
	Title         string
	Variant       model.Variant
	Branches      []string
	AdminPassword string
	SessionSecret string
	PageSize      int
	GinLogging    bool
	MirrorTimeout time.Duration
}

// Service holds the dependencies of the HTTP handlers.
type Service struct {
	store   RecordStore
	mirror  mirror.Mirror
	opts    Options
	logger  *zap.Logger
	metrics *Metrics

	// now returns the current time. Tests replace it.
	now func() time.Time
}

// New creates the service. A nil logger disables logging, nil metrics create a fresh registry.
func New(store RecordStore, m mirror.Mirror, opts Options, logger *zap.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = listing.DefaultPageSize
	}
	if opts.MirrorTimeout <= 0 {
		opts.MirrorTimeout = 15 * time.Second
	}
	return &Service{store: store, mirror: m, opts: opts, logger: logger, metrics: metrics, now: time.Now}
}

// SetupHttpRouter initializes the router and registers all endpoints.
func (s *Service) SetupHttpRouter() *gin.Engine {
	var router *gin.Engine
	if s.opts.GinLogging {
		router = gin.Default()
	} else {
		s.logger.Info("Turning off gin request logging")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.SetHTMLTemplate(pageTemplates)
	router.Use(
		requestLogger(s.logger),
		reportErrors(),
		s.metrics.Middleware(),
		sessions.Sessions("regform", cookie.NewStore([]byte(s.opts.SessionSecret))),
	)

	router.GET("/", s.showPage)
	router.POST("/records", s.createRecord)
	router.POST("/admin", s.adminLogin)
	router.POST("/admin/logout", s.adminLogout)
	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	admin := router.Group("/admin", requireAdmin())
	{
		admin.POST("/export", s.exportLink)
		admin.GET("/export.xlsx", s.exportDownload)
		admin.POST("/delete-all", s.deleteAll)
	}
	return router
}

// pageData is everything the page template renders.
type pageData struct {
	Title      string
	IsBranch   bool
	Branches   []string
	Form       form.State
	Success    []string
	Warning    string
	Header     []string
	Rows       [][]string
	Page       listing.Page
	Admin      bool
	ExportLink template.URL
}

// render lists the records and renders the page for the requested page number. The form state is
// shown as given.
func (s *Service) render(c *gin.Context, status int, state form.State, data pageData) {
	records, err := s.store.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err, msgStorageFailed)
		return
	}
	session := sessions.Default(c)
	data.Title = s.opts.Title
	data.IsBranch = s.opts.Variant == model.VariantBranch
	data.Branches = s.opts.Branches
	data.Form = state
	data.Success = append(flashes(session, "success"), data.Success...)
	data.Header = s.opts.Variant.Header()
	data.Page = listing.Paginate(records, listing.ParsePage(c.Query("page")), s.opts.PageSize)
	data.Admin = isAdmin(c)
	for _, record := range data.Page.Records {
		data.Rows = append(data.Rows, record.Row(s.opts.Variant))
	}
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.HTML(status, "page", data)
}

// fail renders the generic failure page and attaches the error to the request.
func (s *Service) fail(c *gin.Context, status int, err error, message string) {
	c.Error(err)
	c.HTML(status, "error", gin.H{"Title": s.opts.Title, "Message": message})
	c.Abort()
}

// redirectHome saves the session and sends the visitor back to the page.
func (s *Service) redirectHome(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// showPage renders the form and the requested page of the listing. The 'page' URL parameter is
// clamped to the existing pages.
//
//	> curl "http://localhost:8080/?page=2"
func (s *Service) showPage(c *gin.Context) {
	s.render(c, http.StatusOK, form.State{}, pageData{})
}

// createRecord validates the submitted form, stores the record, re-reads it and mirrors it to the
// spreadsheet. The local record is kept when the mirror fails.
//
// Example call:
//
//	> curl http://localhost:8080/records --include --data "first_name=Aziz&phone_number=998901234567&birth_date=2000-05-01"
func (s *Service) createRecord(c *gin.Context) {
	var submission public.Submission
	if err := c.ShouldBind(&submission); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
		return
	}

	var state form.State
	record, ok := state.Submit(submission, s.opts.Variant, s.opts.Branches, s.now())
	if !ok {
		s.metrics.Submissions.WithLabelValues("invalid").Inc()
		s.render(c, http.StatusUnprocessableEntity, state, pageData{})
		return
	}

	ctx := c.Request.Context()
	id, err := s.store.Insert(ctx, record)
	if err != nil {
		s.metrics.Submissions.WithLabelValues("storage_error").Inc()
		s.fail(c, http.StatusInternalServerError, err, msgStorageFailed)
		return
	}
	saved, err := s.store.Get(ctx, id)
	if err != nil {
		s.metrics.Submissions.WithLabelValues("storage_error").Inc()
		s.fail(c, http.StatusInternalServerError, err, msgStorageFailed)
		return
	}
	s.metrics.Submissions.WithLabelValues("saved").Inc()
	s.logger.Info("Record saved", zap.Int64("id", saved.Id))

	mirrorCtx, cancel := context.WithTimeout(ctx, s.opts.MirrorTimeout)
	defer cancel()
	result, err := s.mirror.AppendIfNew(mirrorCtx, saved.Row(s.opts.Variant))
	if err != nil {
		s.metrics.MirrorResults.WithLabelValues("failed").Inc()
		s.fail(c, http.StatusBadGateway, fmt.Errorf("mirror record %d: %w", saved.Id, err), msgMirrorFailed)
		return
	}
	s.metrics.MirrorResults.WithLabelValues(result.String()).Inc()
	s.logger.Debug("Record mirrored", zap.Int64("id", saved.Id), zap.Stringer("result", result))

	state.Reset()
	sessions.Default(c).AddFlash(form.MsgSaved, "success")
	s.redirectHome(c)
}

// adminLogin compares the submitted password with the configured one. On a match the session is
// marked as admin; otherwise the page is shown again with a warning.
func (s *Service) adminLogin(c *gin.Context) {
	password := c.PostForm("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.opts.AdminPassword)) != 1 || s.opts.AdminPassword == "" {
		s.logger.Warn("Admin password rejected", zap.String("client_ip", c.ClientIP()))
		s.render(c, http.StatusOK, form.State{}, pageData{Warning: msgNotAuthorized})
		return
	}
	sessions.Default(c).Set(adminKey, true)
	s.redirectHome(c)
}

// adminLogout removes the admin mark from the session.
func (s *Service) adminLogout(c *gin.Context) {
	sessions.Default(c).Delete(adminKey)
	s.redirectHome(c)
}

// exportLink renders the page with a data URI link that contains all records as an Excel file.
func (s *Service) exportLink(c *gin.Context) {
	workbook, ok := s.workbook(c)
	if !ok {
		return
	}
	s.render(c, http.StatusOK, form.State{}, pageData{ExportLink: template.URL(export.DataURI(workbook))})
}

// exportDownload responds with all records as an Excel file attachment.
//
//	> curl --cookie "regform=..." http://localhost:8080/admin/export.xlsx --output data.xlsx
func (s *Service) exportDownload(c *gin.Context) {
	workbook, ok := s.workbook(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.FileName)
	c.Data(http.StatusOK, export.ContentType, workbook)
}

func (s *Service) workbook(c *gin.Context) ([]byte, bool) {
	records, err := s.store.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err, msgStorageFailed)
		return nil, false
	}
	workbook, err := export.Workbook(s.opts.Variant, records)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err, "Не удалось создать Excel файл.")
		return nil, false
	}
	return workbook, true
}

// deleteAll removes all records and restarts the ids at 1. The spreadsheet is left untouched.
func (s *Service) deleteAll(c *gin.Context) {
	if err := s.store.DeleteAll(c.Request.Context()); err != nil {
		s.fail(c, http.StatusInternalServerError, err, msgStorageFailed)
		return
	}
	s.logger.Warn("All records deleted", zap.String("client_ip", c.ClientIP()))
	session := sessions.Default(c)
	session.AddFlash(msgDeleted, "success")
	session.AddFlash(msgIDsReset, "success")
	s.redirectHome(c)
}

// health reports whether the records table can be read.
//
//	> curl http://localhost:8080/healthz
func (s *Service) health(c *gin.Context) {
	n, err := s.store.Count(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "records": n})
}
