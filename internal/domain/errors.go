package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrMaterialNotFound  = errors.New("material no encontrado")
	ErrSKUNotFound       = errors.New("sku sin ficha técnica")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
