package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	// ErrExpenseNotPending se devuelve al intentar decidir sobre un gasto
	// que ya llegó a estado terminal (o sigue en DRAFT).
	ErrExpenseNotPending = errors.New("el gasto no está pendiente de aprobación")
	// ErrNotEligibleApprover se devuelve cuando el usuario autenticado no es
	// aprobador elegible de la etapa actual del gasto.
	ErrNotEligibleApprover = errors.New("el usuario no es aprobador de la etapa actual")
	// ErrRateUnavailable indica que el proveedor FX falló y no hay snapshot en caché.
	ErrRateUnavailable = errors.New("tasa de cambio no disponible")
)
