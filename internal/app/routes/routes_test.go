package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/examseating/internal/app/auth"
	"github.com/yigit/examseating/internal/app/controllers"
	"github.com/yigit/examseating/internal/app/repositories"
	"github.com/yigit/examseating/internal/app/services"
	"github.com/yigit/examseating/internal/pkg/events"
	"github.com/yigit/examseating/internal/pkg/metrics"
)

func TestRateLimitCoversLoginAndGenerationOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := metrics.NewRecorder()
	svc := services.NewServices(
		&repositories.Repositories{SeatingRepository: repositories.NewMemoryRepository()},
		events.NoopPublisher{}, recorder, services.SeatingOptions{Seed: 1},
	)
	lgr := zerolog.Nop()

	var limited []string
	router := gin.New()
	router.Use(sessions.Sessions("s", cookie.NewStore([]byte("secret"))))
	SetupRouter(router,
		controllers.NewAuthController(auth.NewClassifier("@cbit.ac.in", "@cbit.org.in"), lgr),
		controllers.NewUploadController(svc.SeatingService, 0, lgr),
		controllers.NewSeatingController(svc.SeatingService, svc.DocumentService, lgr),
		Options{
			ProtectBulkDownload: true,
			Metrics:             recorder.Handler(),
			RateLimit: func(c *gin.Context) {
				limited = append(limited, c.FullPath())
				c.AbortWithStatus(http.StatusTooManyRequests)
			},
		},
	)

	serve := func(method, path, body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/metrics", ""))
	assert.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, "/login", `{"email":"prof@cbit.ac.in"}`))
	assert.Equal(t, []string{"/login"}, limited)
}
