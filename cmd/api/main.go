package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/expensia/expensia-api/docs"
	appapproval "github.com/expensia/expensia-api/internal/application/approval"
	"github.com/expensia/expensia-api/internal/application/auth"
	appexpense "github.com/expensia/expensia-api/internal/application/expense"
	"github.com/expensia/expensia-api/internal/application/usecase"
	"github.com/expensia/expensia-api/internal/infrastructure/countries"
	"github.com/expensia/expensia-api/internal/infrastructure/fx"
	"github.com/expensia/expensia-api/internal/infrastructure/mail"
	infrapdf "github.com/expensia/expensia-api/internal/infrastructure/pdf"
	"github.com/expensia/expensia-api/internal/infrastructure/postgres"
	httpRouter "github.com/expensia/expensia-api/internal/interfaces/http"
	"github.com/expensia/expensia-api/pkg/config"
	"github.com/expensia/expensia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	stageRepo := postgres.NewApprovalStageRepository(pool)
	ruleRepo := postgres.NewApprovalRuleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Tasas de cambio: snapshot con TTL + resolución de moneda por país.
	rateCache := fx.NewRateCache(
		fx.NewHTTPFetcher(cfg.FX.ProviderURL),
		fx.WithTTL(time.Duration(cfg.FX.TTLMinutes)*time.Minute),
	)
	currencyResolver := countries.NewClient(cfg.FX.CountriesURL, log)

	mailer := mail.NewSMTPMailer(cfg.SMTP)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, stageRepo, ruleRepo, currencyResolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	expenseUC := appexpense.NewExpenseUseCase(expenseRepo, companyRepo, rateCache)

	// PDF: estado de cuenta de gastos del empleado
	pdfGenerator := infrapdf.NewMarotoStatementGenerator()
	statementUC := appexpense.NewStatementUseCase(expenseRepo, companyRepo, userRepo, pdfGenerator)

	approvalUC := appapproval.NewApprovalUseCase(txRunner, expenseRepo, stageRepo, userRepo)
	userUC := usecase.NewUserUseCase(userRepo, mailer)
	flowUC := usecase.NewFlowUseCase(txRunner, stageRepo, ruleRepo, userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Expensia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ExpenseUC:   expenseUC,
		StatementUC: statementUC,
		ApprovalUC:  approvalUC,
		UserUC:      userUC,
		FlowUC:      flowUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
