package main

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"eaadss/config"
	"eaadss/database"
	"eaadss/pkg/ai"
	"eaadss/pkg/bmp"
	"eaadss/pkg/geo"
	"eaadss/pkg/logging"
	"eaadss/pkg/metrics"
	"eaadss/pkg/soil"
	"eaadss/router"

	// Field
	fieldCtrlImp "eaadss/pkg/field/controllerImp"
	fieldRepoImp "eaadss/pkg/field/repositoryImp"
	fieldSvcImp "eaadss/pkg/field/serviceImp"

	// Soil tests
	stCtrlImp "eaadss/pkg/soiltest/controllerImp"
	stRepoImp "eaadss/pkg/soiltest/repositoryImp"
	stSvcImp "eaadss/pkg/soiltest/serviceImp"

	// Practices
	prCtrlImp "eaadss/pkg/practice/controllerImp"
	prRepoImp "eaadss/pkg/practice/repositoryImp"
	prSvcImp "eaadss/pkg/practice/serviceImp"

	// Assessment
	asCtrlImp "eaadss/pkg/assessment/controllerImp"
	asRepoImp "eaadss/pkg/assessment/repositoryImp"
	asSvc "eaadss/pkg/assessment/service"
	asSvcImp "eaadss/pkg/assessment/serviceImp"

	// KB
	kbCtrlImp "eaadss/pkg/kb/controllerImp"
	kbEmbedder "eaadss/pkg/kb/embedder"
	kbRepoImp "eaadss/pkg/kb/repositoryImp"
	kbSvcImp "eaadss/pkg/kb/serviceImp"

	cropCtrlImp "eaadss/pkg/crop/controllerImp"
	healthCtrlImp "eaadss/pkg/health/controllerImp"
	sessionCtrlImp "eaadss/pkg/session/controllerImp"
)

// app is the fully wired service. The CLI reuses it without starting echo.
type app struct {
	logger      zerolog.Logger
	db          *gorm.DB
	echo        *echo.Echo
	assessments asSvc.AssessmentService
}

func newApp(cfg config.AppConfig) (*app, error) {
	logger := logging.Configure(cfg.LogLevel)

	// 1) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// 2) Boundary, carbon table and practices
	region, err := geo.LoadRegion(cfg.BoundaryPath)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	rules, err := bmp.LoadFromFiles(cfg.CropTablePath, cfg.PracticesPath)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	estimator := soil.NewCachedEstimator(soil.NewSpatialModel(), cfg.PredictionTTL)
	m := metrics.New()

	// 3) LLM (mock fallback)
	llm := newLLM(cfg)

	// 4) KB, keyword search only without an embedding endpoint
	var emb *kbEmbedder.Client
	if cfg.EmbEndpoint != "" {
		emb = kbEmbedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel)
	}
	kbSvc := kbSvcImp.New(kbRepoImp.New(db), emb, kbSvcImp.NewFetcher(cfg.KBAllowedDomains, cfg.KBMaxBytes))

	// 5) Repos/services
	fSvc := fieldSvcImp.NewFieldService(fieldRepoImp.New(db), region, estimator, m)
	stSvc := stSvcImp.NewSoilTestService(stRepoImp.New(db))
	prSvc := prSvcImp.NewPracticeService(prRepoImp.New(db))
	aSvc := asSvcImp.NewAssessmentService(asSvcImp.Deps{
		Repo:      asRepoImp.New(db),
		Fields:    fSvc,
		SoilTests: stSvc,
		Practices: prSvc,
		Rules:     rules,
		LLM:       llm,
		KB:        kbSvc,
		Metrics:   m,
	})

	// 6) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(logging.Middleware(logger))
	e.Use(m.Middleware())

	router.New(e, router.Controllers{
		Field:      fieldCtrlImp.New(fSvc),
		Assessment: asCtrlImp.New(aSvc),
		SoilTest:   stCtrlImp.New(stSvc),
		Practice:   prCtrlImp.New(prSvc),
		Crop:       cropCtrlImp.New(rules),
		KB:         kbCtrlImp.New(kbSvc),
		Session:    sessionCtrlImp.NewSessionController(),
		Health:     healthCtrlImp.NewHealthCtrl(db, region),
		Metrics:    m.Handler(),
	}, cfg.StrictSession)

	return &app{
		logger:      logger,
		db:          db,
		echo:        e,
		assessments: aSvc,
	}, nil
}

// newLLM uses the configured endpoint, with or without a key, and the
// deterministic summary otherwise.
func newLLM(cfg config.AppConfig) ai.Client {
	if strings.TrimSpace(cfg.LLMEndpoint) == "" {
		return ai.NewMock()
	}
	return ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("[db] close")
		return err
	}
	return nil
}
