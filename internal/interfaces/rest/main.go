package rest

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/exam"
	infra "github.com/pot-code/coursecert/internal/infrastructure"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
	"github.com/pot-code/coursecert/internal/interfaces/rest/handler"
	"github.com/pot-code/coursecert/internal/interfaces/rest/middleware"
	"github.com/pot-code/coursecert/internal/progress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.elastic.co/apm/module/apmechov4"
	"go.uber.org/zap"
)

// Serve create http transport server
func Serve(
	conn driver.ITransactionalDB,
	rdb driver.KeyValueDB,
	option *infra.AppConfig,
	recorder *metrics.Recorder,
	ContentUseCase content.UseCase,
	ProgressUseCase progress.ProgressUseCase,
	ExamUseCase exam.ExamUseCase,
	CertificateUseCase certificate.CertificateUseCase,
	logger *zap.Logger,
) {
	app := NewApp(conn, rdb, option, recorder, ContentUseCase, ProgressUseCase, ExamUseCase, CertificateUseCase, logger)
	printRoutes(app, logger)
	if err := app.Start(fmt.Sprintf("%s:%d", option.Host, option.Port)); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// NewApp build the echo instance with every route registered
func NewApp(
	conn driver.ITransactionalDB,
	rdb driver.KeyValueDB,
	option *infra.AppConfig,
	recorder *metrics.Recorder,
	ContentUseCase content.UseCase,
	ProgressUseCase progress.ProgressUseCase,
	ExamUseCase exam.ExamUseCase,
	CertificateUseCase certificate.CertificateUseCase,
	logger *zap.Logger,
) *echo.Echo {
	var (
		app       = echo.New()
		validator = validate.NewValidator()
		jwtUtil   = auth.NewJWTUtil(option.Security.JWTMethod,
			option.Security.JWTSecret,
			option.Security.TokenName)
		jwtMiddleware = middleware.VerifyToken(jwtUtil, &middleware.ValidateTokenOption{
			InBlackList: func(ctx context.Context, token string) (bool, error) {
				return rdb.Exists(ctx, token)
			},
		})
		submitLimiter = middleware.RateLimit(&middleware.RateLimitOption{
			PerMinute: option.Limits.ExamSubmitPerMinute,
			KeyFunc: func(c echo.Context) string {
				if claims := jwtUtil.GetContextToken(c); claims != nil {
					return claims.UID
				}
				return c.RealIP()
			},
		})
	)
	app.HideBanner = true

	registerLivenessProbe(app, conn, rdb)
	if option.DevOP.Metrics {
		app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	if option.Env == infra.EnvDevelopment {
		registerProfileEndpoints(app)

		app.Use(middleware.Logging(logger, &middleware.LoggingConfig{
			Skipper: func(e echo.Context) bool {
				return strings.HasPrefix(e.Request().RequestURI, "/healthz") ||
					strings.HasPrefix(e.Request().RequestURI, "/metrics")
			},
			Principal: func(c echo.Context) string {
				if claims := jwtUtil.GetContextToken(c); claims != nil {
					return claims.UID
				}
				return ""
			},
		}))
	}
	app.Use(middleware.Metrics(recorder))
	app.Use(middleware.ErrorHandling(
		&middleware.ErrorHandlingOption{
			Handler: func(c echo.Context, err error) {
				traceID := c.Response().Header().Get(echo.HeaderXRequestID)
				code, body, ok := handler.ErrorResponse(err, traceID)
				if !ok {
					logger.Error(err.Error(), zap.String("trace.id", traceID), zap.Int("http.response.status_code", code))
				}
				c.JSON(code, body)
			},
		},
	))
	app.Use(echo_middleware.Secure())
	if option.DevOP.APM {
		app.Use(apmechov4.Middleware())
	}
	app.Use(echo_middleware.CORS())
	app.Use(middleware.AbortRequest(&middleware.AbortRequestOption{
		Timeout: option.RequestTimeout,
	}))

	var (
		ContentHandler     = handler.NewContentHandler(ContentUseCase)
		ProgressHandler    = handler.NewProgressHandler(ProgressUseCase, jwtUtil, validator)
		ExamHandler        = handler.NewExamHandler(ExamUseCase, jwtUtil, validator)
		CertificateHandler = handler.NewCertificateHandler(CertificateUseCase, jwtUtil, validator)
		SessionHandler     = handler.NewSessionHandler(jwtUtil, rdb)
	)

	createEndpoint(app,
		&endpoint{
			apiVersion:  "api/v1",
			middlewares: []echo.MiddlewareFunc{echo_middleware.RequestID(), middleware.SetTraceLogger(logger)},
			groups: []*apiGroup{
				{
					prefix: "/courses",
					routes: []*route{
						{"GET", "", ContentHandler.HandleListCourses, nil},
					},
				},
				{
					prefix:      "/lessons",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "/:courseId", ContentHandler.HandleListLessons, nil},
					},
				},
				{
					prefix:      "/progress",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"POST", "/update", ProgressHandler.HandleUpdate, nil},
						{"GET", "/course/:courseId", ProgressHandler.HandleGetCourseProgress, nil},
						{"GET", "/status", ProgressHandler.HandleGetStatus, nil},
					},
				},
				{
					prefix:      "/exams",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "/status/:courseId", ExamHandler.HandleGetStatus, nil},
						{"GET", "/:courseId", ExamHandler.HandleGetExam, nil},
						{"POST", "/:courseId/submit", ExamHandler.HandleSubmit, []echo.MiddlewareFunc{submitLimiter}},
					},
				},
				{
					// verification is public, the rest of the group is not
					prefix: "/certificates",
					routes: []*route{
						{"GET", "/verify/:certId", CertificateHandler.HandleVerify, nil},
						{"GET", "", CertificateHandler.HandleList, []echo.MiddlewareFunc{jwtMiddleware}},
						{"GET", "/status/:courseId", CertificateHandler.HandleGetStatus, []echo.MiddlewareFunc{jwtMiddleware}},
						{"POST", "/claim", CertificateHandler.HandleClaim, []echo.MiddlewareFunc{jwtMiddleware}},
						{"GET", "/:courseId/pdf", CertificateHandler.HandleDownloadPDF, []echo.MiddlewareFunc{jwtMiddleware}},
					},
				},
				{
					prefix:      "/session",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"PUT", "/sign-out", SessionHandler.HandleSignOut, nil},
					},
				},
			},
		})
	return app
}

func printRoutes(app *echo.Echo, logger *zap.Logger) {
	for _, route := range app.Routes() {
		if !strings.HasPrefix(route.Name, "github.com/labstack/echo") {
			logger.Info("Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
		}
	}
}

func registerLivenessProbe(app *echo.Echo, db driver.ITransactionalDB, rdb driver.KeyValueDB) {
	app.GET("/healthz", func(c echo.Context) error {
		if db.Ping() == nil && rdb.Ping() == nil {
			c.NoContent(http.StatusOK)
		} else {
			c.NoContent(http.StatusServiceUnavailable)
		}
		return nil
	})
}

func registerProfileEndpoints(app *echo.Echo) {
	expvarHandler := expvar.Handler()
	app.GET("/debug/vars", func(c echo.Context) error {
		expvarHandler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/", func(c echo.Context) error {
		pprof.Index(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/:name", func(c echo.Context) error {
		switch c.Param("name") {
		case "cmdline":
			pprof.Cmdline(c.Response().Writer, c.Request())
		case "profile":
			pprof.Profile(c.Response().Writer, c.Request())
		case "symbol":
			pprof.Symbol(c.Response().Writer, c.Request())
		case "trace":
			pprof.Trace(c.Response().Writer, c.Request())
		default:
			pprof.Handler(c.Param("name")).ServeHTTP(c.Response().Writer, c.Request())
		}
		return nil
	})
}
