// Package docs registers the OpenAPI document served under /swagger.
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
        "/users/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Signup data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Unknown role", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Email, username or admin taken", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/response.ValidationResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in with username or email",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Wrong credentials or inactive user", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/auth": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/validate": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Decode an access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/refresh": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Issue a new access token from a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Revoke a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/update": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update the current user profile",
                "parameters": [
                    {"description": "Profile fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateProfileRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users/update-password": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change the current user password",
                "parameters": [
                    {"description": "Old and new password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdatePasswordRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Wrong password", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Search users",
                "parameters": [
                    {"type": "string", "description": "Substring of username, email or full name", "name": "key", "in": "query"},
                    {"type": "string", "description": "Role name", "name": "role", "in": "query"},
                    {"type": "boolean", "description": "Active flag", "name": "is_active", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page, 1-based", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/users/status/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Toggle whether a user is active",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/users/password/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Set a new password for a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "New password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ResetPasswordRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/articles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Search articles",
                "parameters": [
                    {"type": "string", "description": "Substring of the title", "name": "keys", "in": "query"},
                    {"type": "string", "description": "Category name", "name": "category", "in": "query"},
                    {"type": "string", "description": "Tag name", "name": "tag", "in": "query"},
                    {"enum": ["published", "draft", "archived"], "type": "string", "description": "Only articles in this state", "name": "status", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Create an article",
                "parameters": [
                    {"description": "Article", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Unknown category", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/response.ValidationResponse"}}
                }
            }
        },
        "/articles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Get an article",
                "parameters": [
                    {"type": "integer", "description": "Article ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Update an article owned by the caller",
                "parameters": [
                    {"type": "integer", "description": "Article ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateArticleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Delete an article owned by the caller",
                "parameters": [
                    {"type": "integer", "description": "Article ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Search categories",
                "parameters": [
                    {"type": "string", "description": "Substring of the name", "name": "category", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page, 1-based", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Name taken", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Get a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Rename a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true},
                    {"description": "Category", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Name taken", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Category still has articles", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/roles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "List role names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/ai-agent/{article_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ai-agent"],
                "summary": "Analyze an article with the AI agent",
                "parameters": [
                    {"type": "integer", "description": "Article ID", "name": "article_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "503": {"description": "AI agent not configured", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "response.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "tag": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.ValidationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/response.FieldError"}}
            }
        },
        "handler.SignupRequest": {
            "type": "object",
            "required": ["username", "email", "full_name", "password", "role"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "photo": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["identifier", "password"],
            "properties": {
                "identifier": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "photo": {"type": "string"}
            }
        },
        "handler.UpdatePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 8}
            }
        },
        "handler.ResetPasswordRequest": {
            "type": "object",
            "required": ["new_password"],
            "properties": {
                "new_password": {"type": "string", "minLength": 8}
            }
        },
        "handler.CreateArticleRequest": {
            "type": "object",
            "required": ["title", "content", "category_id"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "status": {"type": "string", "enum": ["published", "draft", "archived"]},
                "tags": {"type": "array", "items": {"type": "string"}},
                "thumb_image": {"type": "string"},
                "cover_image": {"type": "string"},
                "category_id": {"type": "integer"}
            }
        },
        "handler.UpdateArticleRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "status": {"type": "string", "enum": ["published", "draft", "archived"]},
                "tags": {"type": "array", "items": {"type": "string"}},
                "thumb_image": {"type": "string"},
                "cover_image": {"type": "string"},
                "category_id": {"type": "integer"}
            }
        },
        "handler.CategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Curator API",
	Description:      "Content API with articles, categories, JWT authentication and an AI article analyst.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
