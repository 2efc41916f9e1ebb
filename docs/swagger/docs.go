// Package swagger registers the OpenAPI document served under /swagger.
// Keep it in step with the annotations in cmd/start.go and feature/recon.
package swagger

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
        "/recon": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Matches two datasets sent in the body on their key columns and returns the summary and the selected views.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recon"],
                "summary": "Reconcile Inline Datasets",
                "parameters": [
                    {
                        "description": "Datasets and parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/recon.Request"}
                    },
                    {"type": "integer", "description": "Maximum rows returned per view", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "Run the reconstruction checks", "name": "verify", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Reconciliation", "schema": {"$ref": "#/definitions/recon.Response"}},
                    "400": {"description": "Invalid request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Relationship mismatch", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/recon/sources": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Lists CSV, XLSX and JSON objects in the default bucket.",
                "produces": ["application/json"],
                "tags": ["recon"],
                "summary": "List Stored Datasets",
                "parameters": [
                    {"type": "string", "description": "Key prefix", "name": "prefix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Objects", "schema": {"$ref": "#/definitions/recon.ObjectList"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Source backend unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Loads two s3:// or db:// sources, matches them and optionally uploads the views. Engines are cached per sources and keys.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recon"],
                "summary": "Reconcile Stored Datasets",
                "parameters": [
                    {
                        "description": "Sources and parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/recon.SourceRequest"}
                    },
                    {"type": "integer", "description": "Maximum rows returned per view", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "Run the reconstruction checks", "name": "verify", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Reconciliation", "schema": {"$ref": "#/definitions/recon.Response"}},
                    "400": {"description": "Invalid request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Relationship mismatch", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Source backend unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "recon.DatasetInput": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string", "example": "ledger"},
                "rows": {"type": "array", "items": {"type": "array", "items": {}}}
            }
        },
        "recon.Request": {
            "type": "object",
            "properties": {
                "left": {"$ref": "#/definitions/recon.DatasetInput"},
                "left_on": {"type": "string", "example": "id"},
                "relationship": {"type": "string", "example": "1:1"},
                "right": {"$ref": "#/definitions/recon.DatasetInput"},
                "right_on": {"type": "string", "example": "account_id"},
                "suffixes": {"type": "array", "items": {"type": "string"}},
                "verify": {"type": "boolean"},
                "views": {"type": "array", "items": {"type": "string"}}
            }
        },
        "recon.SourceRequest": {
            "type": "object",
            "properties": {
                "left": {"type": "string", "example": "s3://recon/ledger.xlsx"},
                "left_on": {"type": "string", "example": "id"},
                "left_sheet": {"type": "string"},
                "output": {"type": "string", "example": "runs/ledger.xlsx"},
                "relationship": {"type": "string", "example": "1:1"},
                "right": {"type": "string", "example": "db://accounts"},
                "right_on": {"type": "string", "example": "account_id"},
                "right_sheet": {"type": "string"},
                "suffixes": {"type": "array", "items": {"type": "string"}},
                "verify": {"type": "boolean"},
                "views": {"type": "array", "items": {"type": "string"}}
            }
        },
        "recon.ObjectList": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "objects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "recon.Response": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "id": {"type": "string"},
                "output": {"type": "string"},
                "summary": {"$ref": "#/definitions/report.Summary"},
                "verified": {"type": "boolean"},
                "views": {"type": "array", "items": {"$ref": "#/definitions/writer.Table"}}
            }
        },
        "reconcile.PlanSummary": {
            "type": "object",
            "properties": {
                "collapsed": {"type": "integer"},
                "drop": {"type": "integer"},
                "expand": {"type": "integer"},
                "insert": {"type": "integer"},
                "keep": {"type": "integer"}
            }
        },
        "report.Side": {
            "type": "object",
            "properties": {
                "duplicates": {"type": "integer"},
                "key": {"type": "string"},
                "matched": {"type": "integer"},
                "name": {"type": "string"},
                "only": {"type": "integer"},
                "records": {"type": "integer"}
            }
        },
        "report.Summary": {
            "type": "object",
            "properties": {
                "left": {"$ref": "#/definitions/report.Side"},
                "matched_relationship": {"type": "string"},
                "pairs": {"type": "integer"},
                "plan": {"$ref": "#/definitions/reconcile.PlanSummary"},
                "relationship": {"type": "string"},
                "right": {"$ref": "#/definitions/report.Side"}
            }
        },
        "writer.Table": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "rows": {"type": "array", "items": {"type": "array", "items": {}}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Recon Manager API",
	Description:      "API for reconciling two datasets on key columns.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
