package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRelease = `[{
	"id": 7,
	"user_id": "6f1f0f5e-8c2a-4b6e-9d35-0a4b1dca1f5d",
	"app_name": "Folio Notes",
	"version": "1.2.0",
	"description": "Offline-first notes",
	"apk_url": "folio-notes-1700000000000.apk",
	"image_url": "icon.png",
	"download_count": 10,
	"is_pinned": true,
	"created_at": "2025-01-01T00:00:00Z"
}]`

func TestVisitCountsOncePerSession(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setRPCResult("increment_visitor_count", "5")

	visit := func() *http.Response {
		req := httptest.NewRequest("POST", "/api/visit", nil)
		req.AddCookie(&http.Cookie{Name: visitorCookie, Value: "session-abc"})
		resp, err := server.app.Test(req)
		require.NoError(t, err)
		return resp
	}

	first := decodeBody(t, visit())
	assert.Equal(t, true, first["counted"])
	assert.Equal(t, float64(5), first["visitor_count"])

	second := decodeBody(t, visit())
	assert.Equal(t, false, second["counted"], "A repeat visit in the same session must not count")

	assert.Equal(t, 1, backend.rpcCount("increment_visitor_count"))
}

func TestVisitSetsCookieForNewVisitors(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req := httptest.NewRequest("POST", "/api/visit", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == visitorCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "First visit should set the visitor cookie")
}

func TestVisitSkipsCountWhenGuardUnavailable(t *testing.T) {
	server, backend, miniRedis := setupTestServer(t)
	miniRedis.Close()

	req := httptest.NewRequest("POST", "/api/visit", nil)
	req.AddCookie(&http.Cookie{Name: visitorCookie, Value: "session-abc"})
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, false, result["counted"], "Without the dedup guard the visit must not count")
	assert.Equal(t, 0, backend.rpcCount("increment_visitor_count"))
}

func TestAppDownloadCountsAndRedirects(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setTable("app_releases", sampleRelease)

	req := httptest.NewRequest("GET", "/api/apps/7/download", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	assert.Contains(t, location, "/storage/v1/object/public/apks/folio-notes-1700000000000.apk")
	assert.Equal(t, 1, backend.rpcCount("increment_download_count"))
}

func TestAppDownloadEveryHitCounts(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setTable("app_releases", sampleRelease)

	// Simultaneous clicks, not sequential ones: the counter rides a
	// server-side procedure exactly so concurrent downloads can't collapse
	// into fewer increments.
	const n = 8
	statuses := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/api/apps/7/download", nil)
			resp, err := server.app.Test(req)
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, fiber.StatusFound, status)
	}
	assert.Equal(t, n, backend.rpcCount("increment_download_count"), "%d downloads must count exactly %d times", n, n)
}

func TestAppDownloadUnknownRelease(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/apps/999/download", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, "App release not found", result["error"])
}

func TestAppDownloadWithoutApk(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setTable("app_releases", `[{"id":7,"app_name":"Folio Notes","version":"1.2.0","apk_url":"","created_at":"2025-01-01T00:00:00Z"}]`)

	req := httptest.NewRequest("GET", "/api/apps/7/download", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, "No APK uploaded for this release", result["error"])
	assert.Equal(t, 0, backend.rpcCount("increment_download_count"))
}

func TestServiceListDecodesPackages(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setTable("profiles", fmt.Sprintf(`[{"id":%q,"username":"krido","phone":"6281234567890","updated_at":"2025-01-01T00:00:00Z"}]`, ownerID))
	backend.setTable("services", `[{
		"id": 1,
		"title_en": "Basic",
		"title_id": "Dasar",
		"price": "Rp 500.000",
		"time_en": "3 days",
		"time_id": "3 hari",
		"features_en": "[\"Landing page\",\"1 revision\"]",
		"features_id": "[\"Halaman utama\",\"1 revisi\"]",
		"color": "blue",
		"popular": true,
		"created_at": "2025-01-01T00:00:00Z"
	}]`)

	req := httptest.NewRequest("GET", "/api/services", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	services, ok := result["services"].([]interface{})
	require.True(t, ok)
	require.Len(t, services, 1)

	pkg := services[0].(map[string]interface{})
	assert.Equal(t, "Basic", pkg["title_en"])
	assert.Equal(t, []interface{}{"Landing page", "1 revision"}, pkg["features_en"])
	assert.Equal(t, []interface{}{"Halaman utama", "1 revisi"}, pkg["features_id"])
	assert.Equal(t, "https://wa.me/6281234567890?text=Halo%2C+saya+tertarik+dengan+paket+Basic.", pkg["contact_url_en"])
	assert.Equal(t, "https://wa.me/6281234567890?text=Halo%2C+saya+tertarik+dengan+paket+Dasar.", pkg["contact_url_id"])
}

func TestHomeComposesOwnerPage(t *testing.T) {
	server, backend, _ := setupTestServer(t)
	backend.setTable("profiles", fmt.Sprintf(`[{"id":%q,"username":"krido","full_name":"Krido Bahtiar","avatar_url":"me.png","updated_at":"2025-01-01T00:00:00Z"}]`, ownerID))
	backend.setTable("portfolio", fmt.Sprintf(`[{"id":1,"user_id":%q,"title":"Shop API","skills":["Go","Fiber"],"image_url":"shot.png","created_at":"2025-01-01T00:00:00Z"}]`, ownerID))
	backend.setTable("activities", fmt.Sprintf(`[{"id":1,"user_id":%q,"title":"Meetup talk","date":"2025-02-10","image_url":""}]`, ownerID))

	req := httptest.NewRequest("GET", "/api/home", nil)
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)

	profile, ok := result["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "krido", profile["username"])
	assert.Contains(t, profile["avatar_public_url"], "/storage/v1/object/public/avatars/me.png")

	portfolio, ok := result["portfolio"].([]interface{})
	require.True(t, ok)
	require.Len(t, portfolio, 1)
	project := portfolio[0].(map[string]interface{})
	assert.Equal(t, "Shop API", project["title"])
	assert.Contains(t, project["image_public_url"], "/storage/v1/object/public/portfolio/shot.png")

	activities, ok := result["activities"].([]interface{})
	require.True(t, ok)
	require.Len(t, activities, 1)
}
