// Package archive provides the generated Swagger docs for the archive API.
// Regenerate with: swag init -g internal/archive/http/router.go -o api/archive
package archive

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Mysterria Team",
            "url": "https://github.com/mc-mysterria/archive-forum"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "get": {
                "produces": ["text/html"],
                "tags": ["Auth"],
                "summary": "Login page",
                "parameters": [
                    {
                        "type": "string",
                        "default": "/",
                        "description": "Post-login destination",
                        "name": "returnUrl",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Login launcher page", "schema": {"type": "string"}},
                    "302": {"description": "Existing session, redirected to returnUrl", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/callback": {
            "get": {
                "produces": ["text/html"],
                "tags": ["Auth"],
                "summary": "Authentication callback",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bearer token issued by the provider",
                        "name": "token",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "default": "/",
                        "description": "Post-login destination",
                        "name": "returnUrl",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Set when running in the popup flow",
                        "name": "popup",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Terminal handshake state page", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/popup-closer": {
            "get": {
                "produces": ["text/html"],
                "tags": ["Auth"],
                "summary": "Popup closer page",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Millisecond timestamp of the first load, used for the failsafe",
                        "name": "since",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Closer page", "schema": {"type": "string"}}
                }
            }
        },
        "/v1/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Get session",
                "responses": {
                    "200": {
                        "description": "Current session state",
                        "schema": {"$ref": "#/definitions/http.SessionResponse"}
                    }
                }
            }
        },
        "/v1/session/can": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Check permission",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Permission string, e.g. PERM_ARCHIVE:WRITE",
                        "name": "perm",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Check result",
                        "schema": {"$ref": "#/definitions/http.PermissionResponse"}
                    },
                    "400": {
                        "description": "Missing perm parameter",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/v1/session/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "Session cleared"},
                    "500": {
                        "description": "Failed to clear the session",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/http.ReadyHealthResponse"}
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {"$ref": "#/definitions/http.ReadyHealthResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.Identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "permissions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "http.PermissionResponse": {
            "type": "object",
            "properties": {
                "permission": {"type": "string"},
                "allowed": {"type": "boolean"}
            }
        },
        "http.SessionResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "user": {"$ref": "#/definitions/domain.Identity"},
                "can_read": {"type": "boolean"},
                "can_write": {"type": "boolean"},
                "can_moderate": {"type": "boolean"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.ReadyHealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/http.ReadyChecks"}
            }
        },
        "http.ReadyChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Mysterria Archive API",
	Description:      "Session and authentication surface for the Mysterria Archive.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
