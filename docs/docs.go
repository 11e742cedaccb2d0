// Package docs registers the OpenAPI document served at /docs.
// Regenerate with `swag init -g cmd/api/main.go`.
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
        "/activities": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Activities"],
                "summary": "Record an activity",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/activities.RecordActivityRequest"}}
                ],
                "responses": {
                    "200": {"description": "Duplicate activity", "schema": {"$ref": "#/definitions/activities.RecordActivityResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/activities.RecordActivityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/activities/bulk": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Activities"],
                "summary": "Record activities in bulk",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/activities.RecordActivitiesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/activities.RecordActivitiesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/forecast": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Forecast"],
                "summary": "Forecast daily activity",
                "parameters": [
                    {"type": "string", "name": "event_name", "in": "query", "required": true},
                    {"type": "string", "name": "channel", "in": "query"},
                    {"type": "integer", "name": "from", "in": "query"},
                    {"type": "integer", "name": "to", "in": "query"},
                    {"type": "integer", "name": "horizon_days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/replays/{session_id}/views": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Start a replay view",
                "parameters": [
                    {"type": "string", "name": "session_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/replay.StartViewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/replays/{session_id}/analytics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Replay engagement analytics",
                "parameters": [
                    {"type": "string", "name": "session_id", "in": "path", "required": true},
                    {"type": "integer", "name": "session_duration", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/replays/analytics/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Replay analytics for several sessions",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/views/{view_id}/interactions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Record a playback interaction",
                "parameters": [
                    {"type": "string", "name": "view_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/views/{view_id}/watched": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Mark the current playback position as watched",
                "parameters": [
                    {"type": "string", "name": "view_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/views/{view_id}/finalize": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Replays"],
                "summary": "Finalize a replay view",
                "parameters": [
                    {"type": "string", "name": "view_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_query"},
                "message": {"type": "string"}
            }
        },
        "activities.RecordActivityRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "channel": {"type": "string"},
                "campaign_id": {"type": "string"},
                "user_id": {"type": "string"},
                "timestamp": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "metadata": {"type": "object"}
            }
        },
        "activities.RecordActivityResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "created"}}
        },
        "activities.RecordActivitiesRequest": {
            "type": "object",
            "properties": {
                "activities": {"type": "array", "items": {"$ref": "#/definitions/activities.RecordActivityRequest"}}
            }
        },
        "activities.RecordActivitiesResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "integer"},
                "duplicates": {"type": "integer"}
            }
        },
        "replay.StartViewRequest": {
            "type": "object",
            "properties": {
                "viewer_id": {"type": "string"},
                "viewer_name": {"type": "string"},
                "viewer_color": {"type": "string", "example": "#3b82f6"}
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
	Title:            "Temporal Analytics API",
	Description:      "Activity forecasting and replay engagement analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
