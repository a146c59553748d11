package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeStore struct {
	puts []putCall
	err  error
}

type putCall struct {
	key         string
	contentType string
	body        []byte
}

func (f *fakeStore) Put(_ context.Context, key, contentType string, body io.Reader) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(body)
	f.puts = append(f.puts, putCall{key: key, contentType: contentType, body: b})
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "https://capsule-media.s3.us-east-1.amazonaws.com/" + key
}

type fakeDetector struct {
	gotImage  []byte
	gotMax    int
	labels    []string
	err       error
	callCount int
}

func (f *fakeDetector) DetectLabels(_ context.Context, image []byte, maxLabels int) ([]string, error) {
	f.callCount++
	f.gotImage = image
	f.gotMax = maxLabels
	if f.err != nil {
		return nil, f.err
	}
	return f.labels, nil
}

func TestUpload_StoreThenDetect(t *testing.T) {
	store := &fakeStore{}
	det := &fakeDetector{labels: []string{"Dog", "Pet", "Animal"}}
	svc := NewService(store, det, 5)

	data := []byte("fake-jpeg-bytes")
	out, err := svc.Upload(context.Background(), "holiday.jpg", "image/jpeg", data)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(store.puts) != 1 {
		t.Fatalf("expected exactly one put, got %d", len(store.puts))
	}
	put := store.puts[0]
	if !strings.HasSuffix(put.key, ".jpg") {
		t.Errorf("key should keep original extension, got %q", put.key)
	}
	if put.contentType != "image/jpeg" {
		t.Errorf("content type not forwarded, got %q", put.contentType)
	}
	if !bytes.Equal(put.body, data) {
		t.Error("stored bytes differ from the uploaded file")
	}
	if !bytes.Equal(det.gotImage, data) {
		t.Error("detector should receive the same raw bytes")
	}
	if det.gotMax != 5 {
		t.Errorf("expected maxLabels=5, got %d", det.gotMax)
	}
	if out.FileURL != store.URL(put.key) {
		t.Errorf("fileUrl mismatch: %q", out.FileURL)
	}
	// 顺序照检测服务返回，不重排
	want := []string{"Dog", "Pet", "Animal"}
	if len(out.DetectedLabels) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(out.DetectedLabels))
	}
	for i := range want {
		if out.DetectedLabels[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, out.DetectedLabels[i], want[i])
		}
	}
}

func TestUpload_KeyIsUniquePerCall(t *testing.T) {
	store := &fakeStore{}
	det := &fakeDetector{labels: []string{"Tree"}}
	svc := NewService(store, det, 5)

	for i := 0; i < 3; i++ {
		if _, err := svc.Upload(context.Background(), "pic.png", "image/png", []byte("x")); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}
	seen := map[string]bool{}
	for _, p := range store.puts {
		if seen[p.key] {
			t.Fatalf("duplicate object key %q", p.key)
		}
		seen[p.key] = true
	}
}

func TestUpload_StoreErrorSkipsDetector(t *testing.T) {
	store := &fakeStore{err: errors.New("bucket gone")}
	det := &fakeDetector{}
	svc := NewService(store, det, 5)

	_, err := svc.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if det.callCount != 0 {
		t.Error("detector must not run when the upload already failed")
	}
}

func TestUpload_DetectorErrorSurfaces(t *testing.T) {
	store := &fakeStore{}
	det := &fakeDetector{err: errors.New("throttled")}
	svc := NewService(store, det, 5)

	_, err := svc.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	// 已上传的对象留在存储里，不做补偿删除
	if len(store.puts) != 1 {
		t.Errorf("expected the object to stay uploaded, puts=%d", len(store.puts))
	}
}
