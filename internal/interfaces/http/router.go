package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expensia/expensia-api/internal/application/approval"
	"github.com/expensia/expensia-api/internal/application/auth"
	"github.com/expensia/expensia-api/internal/application/expense"
	"github.com/expensia/expensia-api/internal/application/usecase"
	"github.com/expensia/expensia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ExpenseUC   *expense.ExpenseUseCase
	StatementUC *expense.StatementUseCase
	ApprovalUC  *approval.ApprovalUseCase
	UserUC      *usecase.UserUseCase
	FlowUC      *usecase.FlowUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Expenses (protegido)
	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, deps.StatementUC)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/me", expenseHandler.ListMine)
	expenses.Get("/me/statement", expenseHandler.Statement)
	expenses.Post("/:id/submit", expenseHandler.Submit)

	// Approvals (protegido; la elegibilidad por etapa se resuelve en el use case)
	approvals := protected.Group("/approvals")
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	approvals.Get("/inbox", approvalHandler.Inbox)
	approvals.Get("/history", approvalHandler.History)
	approvals.Post("/:id/decision", approvalHandler.Decide)

	// Admin (protegido + RBAC)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin.String()))
	userHandler := NewUserHandler(deps.UserUC)
	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Put("/users/:id", userHandler.Update)
	admin.Post("/users/:id/send-password", userHandler.SendPassword)

	flowHandler := NewFlowHandler(deps.FlowUC)
	admin.Get("/flow", flowHandler.Get)
	admin.Post("/flow", flowHandler.Save)
}
