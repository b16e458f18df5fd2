package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Marketing Report API",
        "description": "Daily ad-performance reporting, aggregation dashboards and sheet mirroring",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and password management"},
        {"name": "Reports", "description": "Daily report submission and management"},
        {"name": "Dashboard", "description": "Aggregated performance views"},
        {"name": "Export", "description": "CSV and PDF downloads"},
        {"name": "Roster", "description": "HR roster management"},
        {"name": "Users", "description": "Account administration"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Self-register a role=user account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List submitted reports within the caller's scope",
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "products", "in": "query", "type": "string"},
                    {"name": "shifts", "in": "query", "type": "string"},
                    {"name": "markets", "in": "query", "type": "string"},
                    {"name": "teams", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reports"],
                "summary": "Submit a daily report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get one report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Reports"],
                "summary": "Edit a report (owner or admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            },
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete a report (owner or admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/reports/{id}/status": {
            "patch": {
                "tags": ["Reports"],
                "summary": "Override sync status (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"}
                }
            }
        },
        "/reports/{id}/resync": {
            "post": {
                "tags": ["Reports"],
                "summary": "Re-queue a report for the sheet mirror (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Scheduled"}
                }
            }
        },
        "/dashboard/overview": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Totals, per-person summary and product series",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/markets": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Product effectiveness grouped by market region",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/records": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Raw record table behind the dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/orders": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Fulfilment order table, leaders and admins only",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/dashboard/options": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Distinct filter values visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/summary": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the person summary as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Add a roster entry (admin or manager)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/roster/options": {
            "get": {
                "tags": ["Roster"],
                "summary": "Distinct dropdown values",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/provision": {
            "post": {
                "tags": ["Users"],
                "summary": "Bulk-create accounts from the roster (admin)",
                "responses": {
                    "200": {"description": "Provisioning summary"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitReportRequest": {
            "type": "object",
            "required": ["date", "shift", "product", "market", "ad_account"],
            "properties": {
                "date": {"type": "string", "example": "2024-05-02"},
                "shift": {"type": "string", "enum": ["mid-shift", "end-shift"]},
                "product": {"type": "string"},
                "market": {"type": "string"},
                "ad_account": {"type": "string"},
                "ad_spend": {"type": "number"},
                "messages": {"type": "integer"},
                "orders": {"type": "integer"},
                "revenue": {"type": "number"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
