// Package docs holds the OpenAPI description served by the swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/snakebite": {
            "get": {
                "description": "Monthly aggregates plus all case rows, optionally searched and sorted",
                "produces": ["application/json"],
                "tags": ["snakebite"],
                "summary": "List cases",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive search across all columns", "name": "q", "in": "query"},
                    {"type": "string", "description": "Column key to sort by, e.g. Date or Snake_Type", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CasesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Upload a CSV (or JSON array) of cases; rows are normalized and inserted in batches of 100",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["snakebite"],
                "summary": "Import cases",
                "parameters": [
                    {"type": "file", "description": "CSV or JSON file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ImportResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/snakebite/series": {
            "get": {
                "description": "Every case date plus the monthly aggregates",
                "produces": ["application/json"],
                "tags": ["snakebite"],
                "summary": "Chart series",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SeriesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/snakebite/chart/{group}": {
            "get": {
                "description": "Daily, monthly or quarterly counts with cumulative totals",
                "produces": ["application/json"],
                "tags": ["snakebite"],
                "summary": "Chart points",
                "parameters": [
                    {"type": "string", "description": "date, month or quarter", "name": "group", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/snakebite/export": {
            "get": {
                "description": "CSV download of the case table; accepts the same q, sort and order parameters as the list endpoint",
                "produces": ["text/csv"],
                "tags": ["snakebite"],
                "summary": "Export cases",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive search across all columns", "name": "q", "in": "query"},
                    {"type": "string", "description": "Column key to sort by", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.CasesResponse": {
            "type": "object",
            "properties": {
                "dailyDetails": {"type": "array", "items": {"$ref": "#/definitions/model.CaseRecord"}},
                "monthly": {"type": "array", "items": {"$ref": "#/definitions/model.MonthlyAggregate"}}
            }
        },
        "handler.ChartResponse": {
            "type": "object",
            "properties": {
                "group": {"type": "string"},
                "points": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "stack": {"type": "string"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.SeriesResponse": {
            "type": "object",
            "properties": {
                "daily": {"type": "array", "items": {"$ref": "#/definitions/model.DateEvent"}},
                "monthly": {"type": "array", "items": {"$ref": "#/definitions/model.MonthlyAggregate"}}
            }
        },
        "model.CaseRecord": {
            "type": "object",
            "properties": {
                "Age": {"type": "integer"},
                "Age_Group": {"type": "string"},
                "Arrival Period (Updated)": {"type": "string"},
                "Arrival Period - Num(Updated)": {"type": "integer"},
                "Bite_Location": {"type": "string"},
                "Date": {"type": "string"},
                "Diagnostic": {"type": "string"},
                "Outcome": {"type": "string"},
                "SAV_Volumn": {"type": "number"},
                "Sex": {"type": "string"},
                "Snake_Type": {"type": "string"},
                "Traditional medicine or touniquet (Updated)": {"type": "string"}
            }
        },
        "model.DateEvent": {
            "type": "object",
            "properties": {
                "Date": {"type": "string"}
            }
        },
        "model.ImportResult": {
            "type": "object",
            "properties": {
                "batches": {"type": "integer"},
                "importId": {"type": "string"},
                "inserted": {"type": "integer"},
                "rejected": {"type": "integer"},
                "sample": {"type": "array", "items": {"$ref": "#/definitions/model.CaseRecord"}},
                "skipped": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "model.MonthlyAggregate": {
            "type": "object",
            "properties": {
                "month_name": {"type": "string"},
                "month_start": {"type": "string"},
                "monthly_count": {"type": "integer"},
                "year": {"type": "integer"},
                "ytd_count": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Snakebite Dashboard API",
	Description:      "Case records, chart series and CSV import/export for the snakebite dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
