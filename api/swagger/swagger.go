package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus ERP API",
        "description": "Permission-gated master data and administration service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, tokens and password lifecycle"},
        {"name": "Permissions", "description": "Per-page capability resolution and assignment"},
        {"name": "Navigation", "description": "Role landing routes and sidebar"},
        {"name": "Master Data", "description": "Generic master table CRUD"},
        {"name": "Options", "description": "Dependent dropdowns for the course hierarchy"},
        {"name": "Notifications", "description": "Per-session notification slot"},
        {"name": "Employees", "description": "Staff records and qualifications"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
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
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "423": {"description": "Account locked"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Expired or revoked"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "responses": {
                    "204": {"description": "Password changed"},
                    "409": {"description": "Password recently used"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/permissions/resolve": {
            "get": {
                "tags": ["Permissions"],
                "summary": "Resolve page permissions",
                "parameters": [
                    {"name": "path", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Capability set with form flags"}
                }
            }
        },
        "/permissions/me": {
            "get": {
                "tags": ["Permissions"],
                "summary": "List my viewable permissions",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/permissions/users/{id}": {
            "get": {
                "tags": ["Permissions"],
                "summary": "List a user's permissions",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/permissions/batch": {
            "put": {
                "tags": ["Permissions"],
                "summary": "Batch update permissions",
                "responses": {
                    "204": {"description": "Applied"},
                    "403": {"description": "Protected target"}
                }
            }
        },
        "/permissions/menus": {
            "get": {
                "tags": ["Permissions"],
                "summary": "Full menu tree",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/navigation/landing": {
            "get": {
                "tags": ["Navigation"],
                "summary": "Landing route for the caller's designation",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/navigation/sidebar": {
            "get": {
                "tags": ["Navigation"],
                "summary": "Sidebar pruned to viewable items",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/master": {
            "get": {
                "tags": ["Master Data"],
                "summary": "List master tables",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/master/{entity}": {
            "get": {
                "tags": ["Master Data"],
                "summary": "List records",
                "parameters": [
                    {"name": "entity", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown entity"}
                }
            },
            "post": {
                "tags": ["Master Data"],
                "summary": "Create record",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing required fields"}
                }
            }
        },
        "/master/{entity}/{id}": {
            "get": {
                "tags": ["Master Data"],
                "summary": "Get record",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Master Data"],
                "summary": "Update record",
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Master Data"],
                "summary": "Soft delete record",
                "parameters": [
                    {"name": "confirm", "in": "query", "type": "boolean", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "428": {"description": "Confirmation required"}
                }
            }
        },
        "/master/{entity}/schema": {
            "get": {
                "tags": ["Master Data"],
                "summary": "Entity field schema",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/master/{entity}/import": {
            "post": {
                "tags": ["Master Data"],
                "summary": "Import legacy export",
                "responses": {
                    "200": {"description": "Import summary"}
                }
            }
        },
        "/options/{level}": {
            "get": {
                "tags": ["Options"],
                "summary": "Dropdown options for one hierarchy level",
                "parameters": [
                    {"name": "level", "in": "path", "type": "string", "required": true},
                    {"name": "parent_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/options-state": {
            "get": {
                "tags": ["Options"],
                "summary": "Current cascade state",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Options"],
                "summary": "Reset cascade state",
                "responses": {
                    "204": {"description": "Reset"}
                }
            }
        },
        "/options-state/select": {
            "post": {
                "tags": ["Options"],
                "summary": "Select at a level",
                "responses": {
                    "200": {"description": "State with child options"}
                }
            }
        },
        "/notifications": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Publish notification",
                "responses": {
                    "201": {"description": "Stored"}
                }
            },
            "delete": {
                "tags": ["Notifications"],
                "summary": "Dismiss notification",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/notifications/current": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Pending notification",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee with qualifications",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "responses": {
                    "200": {"description": "Updated"}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Soft delete employee",
                "responses": {
                    "204": {"description": "Deleted"},
                    "428": {"description": "Confirmation required"}
                }
            }
        },
        "/export/master/{entity}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export master table",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/export/employees": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export staff roster",
                "responses": {
                    "200": {"description": "File download"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
