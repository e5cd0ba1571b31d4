// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Digital Reviver",
            "email": "hello@digitalreviver.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/blogs": {
            "get": {"tags": ["Content"], "summary": "List published blogs", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Create published blog", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/blogs/{slug}": {
            "get": {"tags": ["Content"], "summary": "Get published blog", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Update published blog", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Delete published blog", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found"}}}
        },
        "/preview-blogs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "List blog drafts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Create blog draft", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/preview-blogs/{slug}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Get blog draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Update blog draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Delete blog draft and its published copy", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found"}}}
        },
        "/preview-blogs/publish/{slug}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Publish blog draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "result is created or updated"}, "403": {"description": "Forbidden"}, "404": {"description": "Draft not found"}}}
        },
        "/services": {
            "get": {"tags": ["Content"], "summary": "List published services", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Create published service", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/services/{slug}": {
            "get": {"tags": ["Content"], "summary": "Get published service", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Update published service", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Delete published service", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found"}}}
        },
        "/preview-services": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "List service drafts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Create service draft", "responses": {"201": {"description": "Created"}}}
        },
        "/preview-services/{slug}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Get service draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Update service draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Delete service draft and its published copy", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/preview-services/publish/{slug}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Preview"], "summary": "Publish service draft", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "result is created or updated"}}}
        },
        "/publications": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Publications"], "summary": "List publications", "responses": {"200": {"description": "OK"}}}
        },
        "/uploads": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Files"], "summary": "Upload an image", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "url"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Enter the token with the ` + "`" + `Bearer ` + "`" + ` prefix, e.g. \"Bearer abcde12345\".",
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
	BasePath:         "/api",
	Schemes:          []string{"https", "http"},
	Title:            "Digital Reviver API",
	Description:      "Content backend for the Digital Reviver site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
