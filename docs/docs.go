// Package docs holds the API document served at /docs/swagger.json and used
// for request validation.
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
        "/api/v1/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "integer", "minimum": 0, "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "minimum": 0, "description": "Rows to skip", "name": "offset", "in": "query"},
                    {
                        "enum": ["pending", "processing", "completed", "failed", "cancelled", "refunded"],
                        "type": "string",
                        "description": "Filter by status",
                        "name": "status",
                        "in": "query"
                    },
                    {"type": "string", "description": "Admin only: list another user's transactions", "name": "user_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/v1/payments/initialize": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a pending transaction and a provider intent, or returns the caller's active one for the same course.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Initialize a course payment",
                "parameters": [
                    {
                        "description": "Course and currency",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.InitializeRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Transaction with client secret or authorization URL", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Invalid request or unsupported currency", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "409": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "422": {"description": "Course not purchasable or provider rejected", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Provider unavailable", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/v1/payments/{transactionID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Get a transaction",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Transaction ID", "name": "transactionID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/v1/payments/{transactionID}/refund": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Refund a payment",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Transaction ID", "name": "transactionID", "in": "path", "required": true},
                    {
                        "description": "Refund reason",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.RefundRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "409": {"description": "Transaction is not completed", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/v1/payments/{transactionID}/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Verify a payment",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Transaction ID", "name": "transactionID", "in": "path", "required": true},
                    {
                        "description": "Optional provider the client paid with",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.VerifyRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/webhooks/{provider}": {
            "post": {
                "description": "Signature-verified callback. Duplicate and irrelevant events are acknowledged with 200.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Provider webhook",
                "parameters": [
                    {"type": "string", "description": "Provider: stripe, paystack or midtrans", "name": "provider", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Invalid signature", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Provider not enabled", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean"}
            }
        },
        "handler.InitializeRequest": {
            "type": "object",
            "required": ["course_id", "currency"],
            "properties": {
                "course_id": {"type": "string", "minLength": 1, "example": "go-concurrency"},
                "currency": {"type": "string", "minLength": 3, "maxLength": 3, "example": "NGN"},
                "provider": {"type": "string", "enum": ["stripe", "paystack", "midtrans"], "example": "paystack"}
            }
        },
        "handler.RefundRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string", "maxLength": 500, "example": "requested by customer"}
            }
        },
        "handler.VerifyRequest": {
            "type": "object",
            "properties": {
                "provider": {"type": "string", "enum": ["stripe", "paystack", "midtrans"], "example": "stripe"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Coursepay API",
	Description:      "Course purchase payments across Stripe, Paystack and Midtrans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
