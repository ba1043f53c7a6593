package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/config"
	"image-upload-server/internal/model"
	"image-upload-server/internal/repository"
	"image-upload-server/internal/service"
	"image-upload-server/internal/storage"
	"image-upload-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type handlerEnv struct {
	db     *gorm.DB
	root   string
	router *gin.Engine
}

func setupHandlerEnv(t *testing.T, kind string) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutils.SetupDB(t)
	root := t.TempDir()
	backend, err := storage.New(kind, root)
	if err != nil {
		t.Fatalf("创建存储后端失败: %v", err)
	}
	customers := repository.NewCustomerRepository(gdb)
	images := repository.NewImageRepository(gdb)
	limits := service.LimitsFromConfig(config.UploadConfig{MaxSizeMB: 5, MaxImages: 10, VerifyContent: true})

	ch := NewCustomerHandler(service.NewCustomerService(customers, backend), "/api/images/serve/")
	ih := NewImageHandler(service.NewImageService(customers, images, backend, limits), "/api/images/serve/")

	r := gin.New()
	api := r.Group("/api")
	api.GET("/ping", Ping)
	api.GET("/customers", ch.ListCustomers)
	api.GET("/customers/:id", ch.GetCustomer)
	api.POST("/customers", ch.CreateCustomer)
	api.PUT("/customers/:id", ch.UpdateCustomer)
	api.DELETE("/customers/:id", ch.DeleteCustomer)
	api.POST("/images/upload/:customerId", ih.UploadImages)
	api.POST("/images/upload-base64", ih.UploadBase64)
	api.GET("/images/customer/:customerId", ih.ListCustomerImages)
	api.GET("/images/count/:customerId", ih.GetImageCount)
	api.GET("/images/serve/:id", ih.ServeImage)
	api.GET("/images/base64/:id", ih.GetImageBase64)
	api.GET("/images/:id", ih.GetImage)
	api.DELETE("/images/:id", ih.DeleteImage)

	return &handlerEnv{db: gdb, root: root, router: r}
}

func (e *handlerEnv) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *handlerEnv) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return e.do(method, path, body, "application/json")
}

func (e *handlerEnv) createCustomer(t *testing.T) model.Customer {
	t.Helper()
	c := model.Customer{FirstName: "Ada", LastName: "Lovelace"}
	if err := e.db.Create(&c).Error; err != nil {
		t.Fatalf("创建客户失败: %v", err)
	}
	return c
}

type uploadFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, files []uploadFile, description string) ([]byte, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		_, _ = part.Write(f.data)
	}
	if description != "" {
		_ = w.WriteField("description", description)
	}
	_ = w.Close()
	return body.Bytes(), w.FormDataContentType()
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) httpx.Response[T] {
	t.Helper()
	var resp httpx.Response[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v body=%s", err, rec.Body.String())
	}
	return resp
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("期望 %d，实际为 %d body=%s", status, rec.Code, rec.Body.String())
	}
}

