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
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/github": {
            "get": {
                "description": "Returns profile fields and up to 100 repositories, most recently updated first. Served from cache when present.",
                "produces": ["application/json"],
                "tags": ["GitHub"],
                "summary": "Get the configured account's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/account.Profile"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/github/{repoName}": {
            "get": {
                "description": "Returns repository metadata with its languages, up to 10 open issues and up to 10 contributors. Served from cache when present.",
                "produces": ["application/json"],
                "tags": ["GitHub"],
                "summary": "Get repository detail",
                "parameters": [
                    {"type": "string", "description": "Repository name", "name": "repoName", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/account.RepositoryDetail"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/github/{repoName}/issues": {
            "post": {
                "description": "Creates an issue on the repository and drops its cached detail",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["GitHub"],
                "summary": "Open an issue",
                "parameters": [
                    {"type": "string", "description": "Repository name", "name": "repoName", "in": "path", "required": true},
                    {"description": "Issue title and body", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.IssueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateIssueResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports that the process is serving. Neither GitHub nor Redis is contacted.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "account.ContributorSummary": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "contributions": {"type": "integer"},
                "html_url": {"type": "string"},
                "login": {"type": "string"}
            }
        },
        "account.CreatedIssue": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "html_url": {"type": "string"},
                "id": {"type": "integer"},
                "number": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "account.IssueRequest": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "account.IssueSummary": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "html_url": {"type": "string"},
                "id": {"type": "integer"},
                "number": {"type": "integer"},
                "state": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"},
                "user": {"$ref": "#/definitions/account.UserRef"}
            }
        },
        "account.Profile": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "bio": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string"},
                "followers": {"type": "integer"},
                "following": {"type": "integer"},
                "html_url": {"type": "string"},
                "login": {"type": "string"},
                "name": {"type": "string", "x-nullable": true},
                "public_repos": {"type": "integer"},
                "repositories": {"type": "array", "items": {"$ref": "#/definitions/account.RepositorySummary"}},
                "updated_at": {"type": "string"}
            }
        },
        "account.RepositoryDetail": {
            "type": "object",
            "properties": {
                "contributors": {"type": "array", "items": {"$ref": "#/definitions/account.ContributorSummary"}},
                "created_at": {"type": "string"},
                "default_branch": {"type": "string"},
                "description": {"type": "string", "x-nullable": true},
                "forks_count": {"type": "integer"},
                "full_name": {"type": "string"},
                "html_url": {"type": "string"},
                "id": {"type": "integer"},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/account.IssueSummary"}},
                "language": {"type": "string", "x-nullable": true},
                "languages": {"type": "object", "additionalProperties": {"type": "integer"}},
                "name": {"type": "string"},
                "open_issues_count": {"type": "integer"},
                "pushed_at": {"type": "string", "x-nullable": true},
                "size": {"type": "integer"},
                "stargazers_count": {"type": "integer"},
                "updated_at": {"type": "string"},
                "watchers_count": {"type": "integer"}
            }
        },
        "account.RepositorySummary": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "x-nullable": true},
                "forks_count": {"type": "integer"},
                "html_url": {"type": "string"},
                "id": {"type": "integer"},
                "language": {"type": "string", "x-nullable": true},
                "name": {"type": "string"},
                "stargazers_count": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "account.UserRef": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "html_url": {"type": "string"},
                "login": {"type": "string"}
            }
        },
        "handlers.CreateIssueResponse": {
            "type": "object",
            "properties": {
                "issue": {"$ref": "#/definitions/account.CreatedIssue"},
                "message": {"type": "string", "example": "Issue created successfully"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Failed to fetch GitHub profile: Not Found"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GitHub Relay API",
	Description:      "Relays a fixed GitHub account's profile, repositories and issue creation, cached in Redis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
