package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rhyrak/hall-schedule/internal/csvio"
	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/jsonio"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

type server struct {
	store    *store
	logger   *slog.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	catalog *scheduler.Catalog
}

func newServer(st *store, logger *slog.Logger) *server {
	return &server{store: st, logger: logger, validate: validator.New()}
}

func (s *server) setCatalog(c *scheduler.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

// requestLogger attaches a request scoped logger to the request context.
func (s *server) requestLogger(c *gin.Context) {
	logger := s.logger.With("request_id", uuid.NewString(), "method", c.Request.Method, "path", c.FullPath())
	c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), logger))
	c.Next()
	logger.Debug("Request served.", "status", c.Writer.Status())
}

// scheduleForm holds the optional run parameters of a multipart upload.
type scheduleForm struct {
	LectureBuildings  string `form:"lectureBuildings"`
	TutorialBuildings string `form:"tutorialBuildings"`
	ConvenienceFactor *int   `form:"convenienceFactor" validate:"omitempty,gte=-100"`
	Delimiter         string `form:"delimiter" validate:"omitempty,len=1"`
}

func (f *scheduleForm) runParams() *jsonio.RunParams {
	p := &jsonio.RunParams{ConvenienceFactor: f.ConvenienceFactor}
	// A field that was sent but lists nothing still overrides the default,
	// so validation can reject it.
	if f.LectureBuildings != "" {
		p.LectureBuildingPriority = append([]string{}, splitList(f.LectureBuildings)...)
	}
	if f.TutorialBuildings != "" {
		p.TutorialBuildingPriority = append([]string{}, splitList(f.TutorialBuildings)...)
	}
	return p
}

func (f *scheduleForm) delimiter() rune {
	if f.Delimiter == "" {
		return ';'
	}
	r, _ := utf8.DecodeRuneInString(f.Delimiter)
	return r
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func badRequest(ctx *gin.Context, err error) {
	ctxlog.FromContext(ctx.Request.Context()).Warn("Rejected request.", "error", err)
	ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *server) handleGetSchedule(ctx *gin.Context) {
	allIDs, err := s.store.ids()
	if err != nil {
		ctxlog.FromContext(ctx.Request.Context()).Error("Cannot list schedules.", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"scheduleIds": allIDs,
	})
}

func (s *server) serveFile(ctx *gin.Context, suffix string) {
	content, err := s.store.read(ctx.Param("id"), suffix)
	if errors.Is(err, errNotFound) {
		ctx.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		ctxlog.FromContext(ctx.Request.Context()).Error("Cannot read schedule.", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": string(content),
	})
}

func (s *server) handleGetScheduleWithId(ctx *gin.Context) {
	s.serveFile(ctx, scheduleSuffix)
}

func (s *server) handleGetScheduleVenues(ctx *gin.Context) {
	s.serveFile(ctx, timelineSuffix)
}

func (s *server) handleDeleteScheduleWithId(ctx *gin.Context) {
	err := s.store.delete(ctx.Param("id"))
	if errors.Is(err, errNotFound) {
		ctx.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		ctxlog.FromContext(ctx.Request.Context()).Error("Cannot delete schedule.", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type venueView struct {
	Name            string `json:"name"`
	Capacity        int    `json:"capacity"`
	OpenHalfHours   int    `json:"openHalfHours"`
	BookedHalfHours int    `json:"bookedHalfHours"`
}

type buildingView struct {
	Building string      `json:"building"`
	Venues   []venueView `json:"venues"`
}

// handleGetVenues lists the venues of the last generated schedule by
// building, smallest first.
func (s *server) handleGetVenues(ctx *gin.Context) {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()

	buildings := []buildingView{}
	if catalog != nil {
		for _, b := range catalog.Buildings() {
			view := buildingView{Building: b}
			for _, v := range catalog.Building(b) {
				view.Venues = append(view.Venues, venueView{
					Name:            v.Name,
					Capacity:        v.Capacity,
					OpenHalfHours:   len(v.OpenSlots()),
					BookedHalfHours: len(v.BookedSlots()),
				})
			}
			buildings = append(buildings, view)
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"buildings": buildings})
}

// handlePostSchedule accepts either a JSON payload or a multipart form with
// "courses" and "venues" files, and generates a schedule synchronously.
func (s *server) handlePostSchedule(ctx *gin.Context) {
	var (
		courses []model.CourseRecord
		venues  []model.VenueRecord
		overlay *jsonio.RunParams
	)

	if ctx.ContentType() == gin.MIMEJSON {
		payload, err := jsonio.DecodePayload(ctx.Request.Body)
		if err != nil {
			badRequest(ctx, err)
			return
		}
		courses, venues, overlay = payload.Courses, payload.Venues, payload.Params
	} else {
		var form scheduleForm
		if err := ctx.ShouldBind(&form); err != nil {
			badRequest(ctx, err)
			return
		}
		if err := s.validate.Struct(&form); err != nil {
			badRequest(ctx, err)
			return
		}
		var err error
		if courses, err = readUpload(ctx, "courses", form.delimiter(), csvio.ReadCourses, jsonio.ReadCourses); err != nil {
			badRequest(ctx, err)
			return
		}
		if venues, err = readUpload(ctx, "venues", form.delimiter(), csvio.ReadVenues, jsonio.ReadVenues); err != nil {
			badRequest(ctx, err)
			return
		}
		overlay = form.runParams()
	}

	params := scheduler.NewDefaultConfiguration().Params
	overlay.Apply(&params)

	id, res, err := s.createAndExportSchedule(ctx.Request.Context(), courses, venues, params)
	if errors.Is(err, scheduler.ErrInvalidConfiguration) {
		badRequest(ctx, err)
		return
	}
	if err != nil {
		ctxlog.FromContext(ctx.Request.Context()).Error("Cannot generate schedule.", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	valid, report := scheduler.Validate(res)

	ctx.JSON(http.StatusOK, gin.H{
		"id":         id,
		"valid":      valid,
		"report":     report,
		"stats":      res.Stats(),
		"unassigned": res.Unassigned(),
	})
}

// readUpload decodes the named multipart file as JSON when its name ends in
// .json and as CSV otherwise.
func readUpload[T any](ctx *gin.Context, field string, delim rune,
	fromCSV func(io.Reader, rune) ([]T, error), fromJSON func(io.Reader) ([]T, error)) ([]T, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file %q: %w", field, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if isJSONUpload(fh) {
		return fromJSON(f)
	}
	return fromCSV(f, delim)
}

func isJSONUpload(fh *multipart.FileHeader) bool {
	return strings.EqualFold(filepath.Ext(fh.Filename), ".json")
}
