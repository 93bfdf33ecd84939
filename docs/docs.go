// Package docs registra la especificación OpenAPI de la API en swag.
// La fuente de verdad son las anotaciones godoc de los handlers en
// internal/interfaces/http; swagger.json es la copia servida por el middleware.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación registrada.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Expensia API",
	Description:      "API de reporte de gastos multi-tenant con flujos de aprobación configurables.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
