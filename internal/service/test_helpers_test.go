package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"image-upload-server/internal/config"
	"image-upload-server/internal/model"
	repo "image-upload-server/internal/repository"
	"image-upload-server/internal/storage"
	"image-upload-server/internal/testutils"

	"gorm.io/gorm"
)

const mib = 1024 * 1024

type testEnv struct {
	db        *gorm.DB
	root      string
	images    *ImageService
	customers *CustomerService
}

func newTestEnv(t *testing.T, kind string) *testEnv {
	t.Helper()

	gdb := testutils.SetupDB(t)
	root := t.TempDir()
	backend, err := storage.New(kind, root)
	if err != nil {
		t.Fatalf("创建存储后端失败: %v", err)
	}
	customerStore := repo.NewCustomerRepository(gdb)
	imageStore := repo.NewImageRepository(gdb)
	limits := LimitsFromConfig(config.UploadConfig{MaxSizeMB: 5, MaxImages: 10, VerifyContent: true})

	return &testEnv{
		db:        gdb,
		root:      root,
		images:    NewImageService(customerStore, imageStore, backend, limits),
		customers: NewCustomerService(customerStore, backend),
	}
}

func (e *testEnv) customer(t *testing.T) *model.Customer {
	t.Helper()
	c, err := e.customers.Create(CustomerInput{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("创建客户失败: %v", err)
	}
	return c
}

func (e *testEnv) countRows(t *testing.T, customerID uint) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.Image{}).Where("customer_id = ?", customerID).Count(&n).Error; err != nil {
		t.Fatalf("统计图片失败: %v", err)
	}
	return n
}

func pngRequest(customerID uint, i int) UploadRequest {
	return UploadRequest{CustomerID: customerID, FileName: fmt.Sprintf("p%d.png", i), ContentType: "image/png"}
}

func mustFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("写入 part 失败: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["files"][0]
}

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if !IsCode(err, code) {
		t.Fatalf("期望错误码 %s，实际为 %v", code, err)
	}
}
