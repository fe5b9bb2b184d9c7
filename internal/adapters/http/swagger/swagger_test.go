package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, mux)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "SkillBench API")
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest(http.MethodGet, "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
			})

			convey.Convey("And the spec should document every route", func() {
				spec := string(OpenAPI)
				for _, route := range []string{
					"/observations",
					"/users/{userId}/industry-comparison",
					"/users/{userId}/peer-comparison",
					"/users/{userId}/ranking",
					"/users/{userId}/readiness",
					"/cohorts/stats",
					"/analysis",
					"/stats",
					"/healthz",
				} {
					convey.So(spec, convey.ShouldContainSubstring, route)
				}
			})
		})
	})
}
