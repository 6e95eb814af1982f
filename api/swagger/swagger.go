package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Shop Management API",
        "description": "Back-office API with approval-workflow guarded mutations",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "auth", "description": "Accounts and sessions"},
        {"name": "records", "description": "Transaction ledgers (buying, selling, revenue, expenses)"},
        {"name": "approvals", "description": "Approval workflow for update and delete mutations"},
        {"name": "customers", "description": "Customer directory"},
        {"name": "dashboard", "description": "Aggregated totals"},
        {"name": "reports", "description": "PDF and CSV exports"},
        {"name": "audit", "description": "Audit trail"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Current session with derived role flags",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/records/{collection}": {
            "get": {
                "tags": ["records"],
                "summary": "List records",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "customer_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            },
            "post": {
                "tags": ["records"],
                "summary": "Create a record (applied immediately)",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/records/{collection}/{id}": {
            "get": {
                "tags": ["records"],
                "summary": "Get a record",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["records"],
                "summary": "Update a record (direct for super-admins, deferred otherwise)",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/MutationResult"}},
                    "202": {"description": "Approval request created", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            },
            "delete": {
                "tags": ["records"],
                "summary": "Delete a record (direct for super-admins, deferred otherwise)",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/MutationResult"}},
                    "202": {"description": "Approval request created", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/approvals": {
            "post": {
                "tags": ["approvals"],
                "summary": "Submit a mutation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitMutationInput"}}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/MutationResult"}},
                    "202": {"description": "Deferred", "schema": {"$ref": "#/definitions/MutationResult"}}
                }
            }
        },
        "/approvals/pending": {
            "get": {
                "tags": ["approvals"],
                "summary": "List pending requests (super-admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/approvals/mine": {
            "get": {
                "tags": ["approvals"],
                "summary": "List my requests, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/approvals/{id}/approve": {
            "put": {
                "tags": ["approvals"],
                "summary": "Approve a pending request and execute it",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "409": {"description": "Request is no longer pending"}
                }
            }
        },
        "/approvals/{id}/reject": {
            "put": {
                "tags": ["approvals"],
                "summary": "Reject a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "409": {"description": "Request is no longer pending"}
                }
            }
        },
        "/approvals/{id}/retry": {
            "post": {
                "tags": ["approvals"],
                "summary": "Retry the failed execution of an approved request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/approvals/{id}": {
            "delete": {
                "tags": ["approvals"],
                "summary": "Clear an own reviewed request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Request is still pending"}
                }
            }
        },
        "/customers": {
            "get": {
                "tags": ["customers"],
                "summary": "List customers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            },
            "post": {
                "tags": ["customers"],
                "summary": "Create a customer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/customers/{id}": {
            "get": {
                "tags": ["customers"],
                "summary": "Get a customer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["customers"],
                "summary": "Delete a customer (scoped records are kept)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Aggregated totals and monthly breakdown",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/reports/{collection}": {
            "get": {
                "tags": ["reports"],
                "summary": "Export a collection report",
                "parameters": [
                    {"name": "collection", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["audit"],
                "summary": "List audit entries (super-admin)",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "actor", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "collection", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SubmitMutationInput": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["update", "delete"]},
                "collection": {"type": "string"},
                "item_id": {"type": "string"},
                "update_data": {"type": "object"}
            },
            "required": ["action", "collection", "item_id"]
        },
        "MutationResult": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["applied", "deferred"]},
                "request_id": {"type": "string"},
                "request": {"$ref": "#/definitions/ApprovalRequest"}
            }
        },
        "ApprovalRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "action": {"type": "string"},
                "collection": {"type": "string"},
                "item_id": {"type": "string"},
                "update_data": {"type": "string"},
                "item_details": {"type": "string"},
                "requested_by": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "reviewed_by": {"type": "string"},
                "reviewed_at": {"type": "string"},
                "rejection_reason": {"type": "string"},
                "execution_error": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "data": {"type": "object"},
                "error": {"type": "string"}
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
