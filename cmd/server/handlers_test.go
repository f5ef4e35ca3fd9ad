package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const coursesCSV = `Course Code;Course Name;Section;Students Registered;Lecture Schedule;Tutorial Schedule;Tutorial Count;Modular Course;Modular Parent
CS101;Intro to CS;;100;M 09:00-10:00;;;;
CS200;Big Course;;500;M 09:00-10:00;;;;
`

const venuesCSV = `name;capacity;building;monday;tuesday;wednesday;thursday;friday
R2;300;B2;08:00-12:00;;;;
R1;150;B1;08:00-12:00;;;;
`

const payloadJSON = `{
  "courseData": [{"Course Code": "CS101", "Students Registered": 20, "Lecture Schedule": "M 09:00-10:00"}],
  "hallData": [{"name": "R1", "capacity": 30, "building": "B1", "schedule": {"monday": [{"open": "08:00", "close": "12:00"}]}}],
  "params": {"lectureBuildingPriority": ["B1"]}
}`

func newTestRouter(t *testing.T) (*gin.Engine, *store) {
	t.Helper()
	st, err := newStore(filepath.Join(t.TempDir(), "generated"))
	require.NoError(t, err)
	return newRouter(newServer(st, ctxlog.Discard())), st
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

type postResponse struct {
	ID         string         `json:"id"`
	Valid      bool           `json:"valid"`
	Stats      map[string]int `json:"stats"`
	Unassigned []struct {
		CourseCode string `json:"courseCode"`
	} `json:"unassigned"`
}

func postMultipart(t *testing.T, r *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, map[string]string{"courses": coursesCSV, "venues": venuesCSV})
	req := httptest.NewRequest(http.MethodPost, "/schedule", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPostSchedule_Multipart(t *testing.T) {
	t.Parallel()

	r, st := newTestRouter(t)
	rec := postMultipart(t, r, map[string]string{"lectureBuildings": "B1, B2", "convenienceFactor": "0"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Valid, "CS200 fits no venue")
	require.Equal(t, 1, resp.Stats["lecturesPlaced"])
	require.Len(t, resp.Unassigned, 1)
	require.Equal(t, "CS200", resp.Unassigned[0].CourseCode)

	ids, err := st.ids()
	require.NoError(t, err)
	require.Equal(t, []string{resp.ID}, ids)

	for _, suffix := range []string{scheduleSuffix, timelineSuffix, unassignedSuffix, statsSuffix} {
		_, err := os.Stat(st.path(resp.ID, suffix))
		require.NoError(t, err, suffix)
	}
}

func TestPostSchedule_JSON(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payloadJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Equal(t, 1, resp.Stats["lecturesPlaced"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule/"+resp.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Contains(t, data.Data, "CS101,,lecture,0,B1,R1,M 09:00-10:00")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule/"+resp.ID+"/venues", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Contains(t, data.Data, "B1,R1,Monday,09:30,CS101")
}

func TestPostSchedule_BadRequests(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	testCases := []struct {
		name   string
		fields map[string]string
	}{
		{name: "factor out of range", fields: map[string]string{"convenienceFactor": "-500"}},
		{name: "factor not a number", fields: map[string]string{"convenienceFactor": "lots"}},
		{name: "long delimiter", fields: map[string]string{"delimiter": ";;"}},
		{name: "empty lecture buildings", fields: map[string]string{"lectureBuildings": " , "}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postMultipart(t, r, tc.fields)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	body, contentType := multipartBody(t, nil, map[string]string{"courses": coursesCSV})
	req := httptest.NewRequest(http.MethodPost, "/schedule", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "venues")

	req = httptest.NewRequest(http.MethodPost, "/schedule", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostSchedule_LargeConvenienceFactor(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	rec := postMultipart(t, r, map[string]string{"lectureBuildings": "B1", "convenienceFactor": "1500"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1500, resp.Stats["convenienceFactor"])
}

func TestGetSchedule_ListAndDelete(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"scheduleIds": []}`, rec.Body.String())

	var resp postResponse
	rec = postMultipart(t, r, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule", nil))
	require.JSONEq(t, `{"scheduleIds": ["`+resp.ID+`"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/schedule/"+resp.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule/"+resp.ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/schedule/"+resp.ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSchedule_RejectsNonUUID(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule/not-a-uuid", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVenues(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/venues", nil))
	require.JSONEq(t, `{"buildings": []}`, rec.Body.String())

	require.Equal(t, http.StatusOK, postMultipart(t, r, map[string]string{"lectureBuildings": "B1,B2"}).Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/venues", nil))
	require.JSONEq(t, `{"buildings": [
		{"building": "B1", "venues": [{"name": "R1", "capacity": 150, "openHalfHours": 8, "bookedHalfHours": 2}]},
		{"building": "B2", "venues": [{"name": "R2", "capacity": 300, "openHalfHours": 8, "bookedHalfHours": 0}]}
	]}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/schedule", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
