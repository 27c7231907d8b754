package main

import (
	"context"
	"log"

	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/eligibility"
	"github.com/pot-code/coursecert/internal/exam"
	infra "github.com/pot-code/coursecert/internal/infrastructure"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
	"github.com/pot-code/coursecert/internal/infrastructure/logging"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"github.com/pot-code/coursecert/internal/infrastructure/uuid"
	"github.com/pot-code/coursecert/internal/interfaces/rest"
	"github.com/pot-code/coursecert/internal/progress"
	"github.com/pot-code/coursecert/internal/render"
	"github.com/pot-code/coursecert/internal/user"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath:   option.Logging.FilePath,
		Level:      option.Logging.Level,
		AppID:      option.AppID,
		Env:        option.Env,
		MaxSize:    option.Logging.MaxSize,
		MaxBackups: option.Logging.MaxBackups,
		MaxAge:     option.Logging.MaxAge,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		logger.Fatal("Failed to create DB connection", zap.Error(err))
	}
	defer dbConn.Close(context.Background())
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)
	if option.Database.Migrate {
		ctx := logging.SetLoggerInContext(context.Background(), logger)
		if err := driver.Migrate(ctx, dbConn); err != nil {
			logger.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logger.Info("Schema is up to date", zap.String("db.driver", option.Database.Driver))
	}

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)
	defer rdb.Close()

	recorder := metrics.NewRecorder("coursecert", prometheus.DefaultRegisterer)

	ContentRepo := content.NewContentRepository(dbConn)
	ContentUseCase := content.NewContentUseCase(ContentRepo)

	UserRepo := user.NewUserRepository(dbConn)
	UserUseCase := user.NewUserUseCase(UserRepo)

	AttemptRepo := exam.NewAttemptRepository(dbConn)
	ExamUseCase := exam.NewExamUseCase(AttemptRepo, ContentUseCase, recorder)

	ProgressRepo := progress.NewProgressRepository(dbConn)
	Evaluator := eligibility.NewEvaluator(ContentUseCase, ProgressRepo, ExamUseCase)

	CertificateRepo := certificate.NewCertificateRepository(dbConn)
	CertificateUseCase := certificate.NewCertificateUseCase(
		CertificateRepo,
		Evaluator,
		ContentUseCase,
		UserUseCase,
		render.NewPDFRenderer("", ""),
		uuid.NewNanoIDGenerator(option.Security.IDLength, uuid.CertificateAlphabet),
		recorder,
		option.PublicBaseURL,
	)
	ProgressUseCase := progress.NewProgressUseCase(ProgressRepo, ContentUseCase, CertificateUseCase, recorder)

	rest.Serve(dbConn, rdb, option, recorder, ContentUseCase, ProgressUseCase, ExamUseCase, CertificateUseCase, logger)
}
