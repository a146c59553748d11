package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	coreauth "github.com/SangramSaha/capsule/internal/core/auth"
	"github.com/SangramSaha/capsule/internal/domain"
	"github.com/SangramSaha/capsule/internal/feature/auth"
	"github.com/SangramSaha/capsule/internal/feature/capsule"
	"github.com/SangramSaha/capsule/internal/feature/upload"
	"github.com/SangramSaha/capsule/internal/transport/http/handler"
	"github.com/SangramSaha/capsule/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeUploader struct {
	gotFilename    string
	gotContentType string
	gotData        []byte
	calls          int
	out            *upload.Result
	err            error
}

func (f *fakeUploader) Upload(_ context.Context, filename, contentType string, data []byte) (*upload.Result, error) {
	f.calls++
	f.gotFilename = filename
	f.gotContentType = contentType
	f.gotData = data
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeCapsules struct {
	createUID string
	createIn  capsule.CreateInput
	createErr error
	listUID   string
	listOut   []domain.Capsule
	listErr   error
}

func (f *fakeCapsules) Create(_ context.Context, userID string, in capsule.CreateInput) error {
	f.createUID = userID
	f.createIn = in
	return f.createErr
}

func (f *fakeCapsules) List(_ context.Context, userID string) ([]domain.Capsule, error) {
	f.listUID = userID
	return f.listOut, f.listErr
}

type fakeAuth struct {
	out *auth.LoginResult
	err error
}

func (f *fakeAuth) Login(context.Context, string, string, string) (*auth.LoginResult, error) {
	return f.out, f.err
}

func testJWTer() *coreauth.JWTer {
	return &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "capsule-api", TTL: time.Hour}
}

func newEngine(t *testing.T, up *fakeUploader, caps *fakeCapsules) (*gin.Engine, *coreauth.JWTer) {
	t.Helper()
	j := testJWTer()
	return router.NewAPIEngine(zap.NewNop(), j,
		handler.NewAuthHandler(&fakeAuth{}),
		handler.NewUploadHandler(up),
		handler.NewCapsuleHandler(caps),
	), j
}

func authedReq(t *testing.T, j *coreauth.JWTer, uid, method, path string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	tok, err := j.Issue(uid)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	// Authorization 放裸 token
	req.Header.Set("Authorization", tok)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestProtected_NoToken(t *testing.T) {
	r, _ := newEngine(t, &fakeUploader{}, &fakeCapsules{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/capsules"},
		{http.MethodPost, "/api/capsules/create"},
		{http.MethodPost, "/api/upload"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: got %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestProtected_InvalidToken(t *testing.T) {
	r, _ := newEngine(t, &fakeUploader{}, &fakeCapsules{})

	req := httptest.NewRequest(http.MethodGet, "/api/capsules", nil)
	req.Header.Set("Authorization", "garbage.token.value")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid token: got %d, want 400", w.Code)
	}
}

func TestUpload_NoFile(t *testing.T) {
	up := &fakeUploader{}
	r, j := newEngine(t, up, &fakeCapsules{})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("note", "no file part here")
	_ = mw.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(t, j, "user-1", http.MethodPost, "/api/upload", body, mw.FormDataContentType()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["message"] != "No file uploaded" {
		t.Errorf("message = %q", out["message"])
	}
	if up.calls != 0 {
		t.Error("orchestrator must not run without a file")
	}
}

func TestUpload_OK(t *testing.T) {
	up := &fakeUploader{out: &upload.Result{
		FileURL:        "https://capsule-media.s3.us-east-1.amazonaws.com/abc.jpg",
		DetectedLabels: []string{"Beach", "Sea"},
	}}
	r, j := newEngine(t, up, &fakeCapsules{})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("file", "holiday.jpg")
	_, _ = fw.Write([]byte("jpeg-bytes"))
	_ = mw.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(t, j, "user-1", http.MethodPost, "/api/upload", body, mw.FormDataContentType()))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	if up.gotFilename != "holiday.jpg" {
		t.Errorf("filename = %q", up.gotFilename)
	}
	if string(up.gotData) != "jpeg-bytes" {
		t.Error("raw bytes not forwarded")
	}

	var out upload.Result
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.FileURL == "" || len(out.DetectedLabels) != 2 {
		t.Errorf("unexpected body: %+v", out)
	}
}

func TestCapsuleCreate(t *testing.T) {
	caps := &fakeCapsules{}
	r, j := newEngine(t, &fakeUploader{}, caps)

	payload := `{"title":"T","content":"C","media":[],"releaseDate":"2030-01-01"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(t, j, "user-7", http.MethodPost, "/api/capsules/create",
		bytes.NewBufferString(payload), "application/json"))

	if w.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", w.Code, w.Body.String())
	}
	if caps.createUID != "user-7" {
		t.Errorf("owner = %q, want user-7 (from token, not body)", caps.createUID)
	}
	if caps.createIn.Title != "T" || caps.createIn.ReleaseDate != "2030-01-01" {
		t.Errorf("input not passed verbatim: %+v", caps.createIn)
	}
}

func TestCapsuleList(t *testing.T) {
	caps := &fakeCapsules{listOut: []domain.Capsule{
		{ID: "c1", UserID: "user-7", Title: "first"},
	}}
	r, j := newEngine(t, &fakeUploader{}, caps)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(t, j, "user-7", http.MethodGet, "/api/capsules", nil, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if caps.listUID != "user-7" {
		t.Errorf("list uid = %q", caps.listUID)
	}
	var out []domain.Capsule
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("expected a bare array body: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c1" {
		t.Errorf("unexpected listing: %+v", out)
	}
}

func TestCapsuleList_StoreError(t *testing.T) {
	caps := &fakeCapsules{listErr: context.DeadlineExceeded}
	r, j := newEngine(t, &fakeUploader{}, caps)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(t, j, "user-7", http.MethodGet, "/api/capsules", nil, ""))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500", w.Code)
	}
}
