package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/di"
	"image-upload-server/internal/dto"
	"image-upload-server/internal/storage"
	"image-upload-server/internal/testutils"
	"image-upload-server/internal/web/client"
	"image-upload-server/internal/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webEnv struct {
	engine *gin.Engine
	api    *client.Client
}

func setupWeb(t *testing.T, backendKind string) *webEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	config.Set(config.Config{Upload: config.UploadConfig{
		Storage:   backendKind,
		Path:      root,
		MaxSizeMB: 5,
		MaxImages: 10,
		URLPrefix: "/api/images/serve/",
	}})

	backend, err := storage.New(backendKind, root)
	require.NoError(t, err)
	app, err := di.InitializeApplication(testutils.SetupDB(t), backend, nil)
	require.NoError(t, err)
	apiEngine := gin.New()
	app.Router.Init(apiEngine)
	srv := httptest.NewServer(apiEngine)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL, 5*time.Second)
	require.NoError(t, err)
	engine, err := NewEngine(New(service.NewCustomerService(api), service.NewImageService(api, 0)))
	require.NoError(t, err)
	return &webEnv{engine: engine, api: api}
}

func (e *webEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *webEnv) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *webEnv) createCustomer(t *testing.T, first, last string) uint {
	t.Helper()
	resp := e.api.CreateCustomer(context.Background(), dto.CustomerRequest{FirstName: first, LastName: last})
	require.True(t, resp.Success, resp.Message)
	return resp.Data.ID
}

func uploadRequest(t *testing.T, path string, names ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, name))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(testutils.PNGBytes(t))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("description", "页面上传"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// 测试内容：验证首页跳转到客户列表，列表页可以渲染。
func TestIndexAndList(t *testing.T) {
	env := setupWeb(t, config.StorageInline)
	env.createCustomer(t, "Ada", "Lovelace")

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/customers", w.Header().Get("Location"))

	w = env.do(httptest.NewRequest(http.MethodGet, "/customers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

// 测试内容：验证表单创建客户后跳转到详情页，校验失败时重新渲染表单。
func TestCreateCustomerForm(t *testing.T) {
	env := setupWeb(t, config.StorageInline)

	w := env.do(httptest.NewRequest(http.MethodGet, "/customers/new", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.postForm("/customers", url.Values{"firstName": {"Grace"}, "lastName": {"Hopper"}, "email": {"grace@example.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/customers/"), loc)

	w = env.do(httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Grace Hopper")
	assert.Contains(t, body, "客户创建成功")
	assert.Contains(t, body, "grace@example.com")

	w = env.postForm("/customers", url.Values{"firstName": {""}, "lastName": {"Hopper"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "flash err")
}

// 测试内容：验证编辑与删除客户。
func TestEditAndDeleteCustomer(t *testing.T) {
	env := setupWeb(t, config.StorageInline)
	id := env.createCustomer(t, "Alan", "Turing")
	path := fmt.Sprintf("/customers/%d", id)

	w := env.do(httptest.NewRequest(http.MethodGet, path+"/edit", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Alan"`)

	w = env.postForm(path, url.Values{"firstName": {"Alan M."}, "lastName": {"Turing"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	got := env.api.GetCustomer(context.Background(), id)
	require.True(t, got.Success)
	assert.Equal(t, "Alan M.", got.Data.FirstName)

	w = env.postForm(path+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/customers?"))

	w = env.do(httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 测试内容：验证页面上传图片后详情页显示 data URL 预览与数量，删除后图片消失。
func TestUploadAndDeleteImage_Inline(t *testing.T) {
	env := setupWeb(t, config.StorageInline)
	id := env.createCustomer(t, "Linus", "Torvalds")
	path := fmt.Sprintf("/customers/%d", id)

	w := env.do(uploadRequest(t, path+"/images", "a.png", "b.png"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("成功上传 2 张图片"))

	w = env.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "（2/10）")
	assert.Contains(t, body, "页面上传")

	images := env.api.ListCustomerImages(context.Background(), id)
	require.True(t, images.Success)
	require.Len(t, *images.Data, 2)
	imageID := (*images.Data)[0].ID

	w = env.postForm(fmt.Sprintf("%s/images/%d/delete", path, imageID), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	count := env.api.GetImageCount(context.Background(), id)
	require.True(t, count.Success)
	assert.Equal(t, int64(1), count.Data.CurrentCount)
}

// 测试内容：验证磁盘存储的图片通过前端转发地址读取。
func TestRawImage_Filesystem(t *testing.T) {
	env := setupWeb(t, config.StorageFilesystem)
	id := env.createCustomer(t, "Ken", "Thompson")
	path := fmt.Sprintf("/customers/%d", id)

	w := env.do(uploadRequest(t, path+"/images", "a.png"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	images := env.api.ListCustomerImages(context.Background(), id)
	require.True(t, images.Success)
	require.Len(t, *images.Data, 1)
	imageID := (*images.Data)[0].ID

	w = env.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("/images/%d/raw", imageID))

	w = env.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/images/%d/raw", imageID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, testutils.PNGBytes(t), w.Body.Bytes())

	w = env.do(httptest.NewRequest(http.MethodGet, "/images/99999/raw", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 测试内容：验证非法 ID 返回 400 错误页。
func TestInvalidID(t *testing.T) {
	env := setupWeb(t, config.StorageInline)

	w := env.do(httptest.NewRequest(http.MethodGet, "/customers/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "无效的 ID")
}

// 测试内容：验证体积格式化输出。
func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "2.0 KB", humanSize(2048))
	assert.Equal(t, "5.0 MB", humanSize(5*1024*1024))
}
